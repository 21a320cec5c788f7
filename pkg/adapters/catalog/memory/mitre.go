package memory

// knownTechniques returns the MITRE ATT&CK technique IDs the catalog
// recognizes. This is the enterprise-matrix subset relevant to log
// based detection; extend it as templates grow.
func knownTechniques() map[string]struct{} {
	ids := []string{
		"T1003", "T1003.001", "T1003.002", "T1003.003",
		"T1021", "T1021.001", "T1021.002", "T1021.006",
		"T1053", "T1053.005",
		"T1055",
		"T1059", "T1059.001", "T1059.003",
		"T1068",
		"T1070", "T1070.001",
		"T1078", "T1078.002", "T1078.003",
		"T1098",
		"T1105",
		"T1110", "T1110.001", "T1110.003",
		"T1112",
		"T1136", "T1136.001", "T1136.002",
		"T1486",
		"T1496",
		"T1543", "T1543.003",
		"T1548", "T1548.001", "T1548.002",
		"T1552", "T1552.001", "T1552.004",
		"T1562", "T1562.001", "T1562.002",
		"T1611",
	}

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
