package memory

import "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"

func intPtr(n int64) *int64 { return &n }

// builtinTemplates is the built-in Windows event template set used
// for attack timeline simulation. Event IDs and providers follow the
// Windows audit schema; the engine itself never depends on any of
// these fields beyond passing them to the sink.
var builtinTemplates = []domain.EventTemplate{
	{
		ID:          "win-security-4624",
		Name:        "Successful Logon",
		Description: "An account was successfully logged on",
		Category:    domain.EventCategorySecurity,
		Provider:    "Microsoft-Windows-Security-Auditing",
		EventID:     4624,
		ParameterSchema: map[string]domain.ParameterSpec{
			"TargetUserName": {Type: domain.ParameterTypeString, Required: true},
			"TargetDomainName": {Type: domain.ParameterTypeString, Required: false},
			"LogonType": {
				Type:     domain.ParameterTypeInt,
				Required: true,
				MinValue: intPtr(2),
				MaxValue: intPtr(11),
			},
			"IpAddress":        {Type: domain.ParameterTypeString, Required: false},
			"WorkstationName":  {Type: domain.ParameterTypeString, Required: false},
			"AuthenticationPackageName": {
				Type:          domain.ParameterTypeString,
				Required:      false,
				AllowedValues: []string{"NTLM", "Kerberos", "Negotiate"},
			},
		},
		MitreTechniques: []string{"T1078"},
	},
	{
		ID:          "win-security-4625",
		Name:        "Failed Logon",
		Description: "An account failed to log on",
		Category:    domain.EventCategorySecurity,
		Provider:    "Microsoft-Windows-Security-Auditing",
		EventID:     4625,
		ParameterSchema: map[string]domain.ParameterSpec{
			"TargetUserName": {Type: domain.ParameterTypeString, Required: true},
			"TargetDomainName": {Type: domain.ParameterTypeString, Required: false},
			"LogonType": {
				Type:     domain.ParameterTypeInt,
				Required: true,
				MinValue: intPtr(2),
				MaxValue: intPtr(11),
			},
			"FailureReason": {Type: domain.ParameterTypeString, Required: false},
			"IpAddress":     {Type: domain.ParameterTypeString, Required: false},
			"SubStatus":     {Type: domain.ParameterTypeString, Required: false},
		},
		MitreTechniques: []string{"T1110"},
	},
	{
		ID:          "win-security-4672",
		Name:        "Special Privileges Assigned",
		Description: "Special privileges assigned to new logon",
		Category:    domain.EventCategorySecurity,
		Provider:    "Microsoft-Windows-Security-Auditing",
		EventID:     4672,
		ParameterSchema: map[string]domain.ParameterSpec{
			"SubjectUserName": {Type: domain.ParameterTypeString, Required: true},
			"PrivilegeList":   {Type: domain.ParameterTypeString, Required: true},
		},
		MitreTechniques: []string{"T1078.002", "T1548"},
	},
	{
		ID:          "win-security-4688",
		Name:        "Process Creation",
		Description: "A new process has been created",
		Category:    domain.EventCategorySecurity,
		Provider:    "Microsoft-Windows-Security-Auditing",
		EventID:     4688,
		ParameterSchema: map[string]domain.ParameterSpec{
			"NewProcessName":  {Type: domain.ParameterTypeString, Required: true},
			"CommandLine":     {Type: domain.ParameterTypeString, Required: false},
			"SubjectUserName": {Type: domain.ParameterTypeString, Required: true},
			"ParentProcessName": {Type: domain.ParameterTypeString, Required: false},
			"TokenElevationType": {
				Type:          domain.ParameterTypeString,
				Required:      false,
				AllowedValues: []string{"%%1936", "%%1937", "%%1938"},
			},
		},
		MitreTechniques: []string{"T1059"},
	},
	{
		ID:          "win-security-4720",
		Name:        "User Account Created",
		Description: "A user account was created",
		Category:    domain.EventCategorySecurity,
		Provider:    "Microsoft-Windows-Security-Auditing",
		EventID:     4720,
		ParameterSchema: map[string]domain.ParameterSpec{
			"TargetUserName":  {Type: domain.ParameterTypeString, Required: true},
			"SubjectUserName": {Type: domain.ParameterTypeString, Required: true},
			"TargetDomainName": {Type: domain.ParameterTypeString, Required: false},
		},
		MitreTechniques: []string{"T1136.001"},
	},
	{
		ID:          "win-security-4732",
		Name:        "Member Added To Security Group",
		Description: "A member was added to a security-enabled local group",
		Category:    domain.EventCategorySecurity,
		Provider:    "Microsoft-Windows-Security-Auditing",
		EventID:     4732,
		ParameterSchema: map[string]domain.ParameterSpec{
			"MemberName":      {Type: domain.ParameterTypeString, Required: true},
			"TargetUserName":  {Type: domain.ParameterTypeString, Required: true},
			"SubjectUserName": {Type: domain.ParameterTypeString, Required: true},
		},
		MitreTechniques: []string{"T1098"},
	},
	{
		ID:          "win-security-5140",
		Name:        "Network Share Accessed",
		Description: "A network share object was accessed",
		Category:    domain.EventCategorySecurity,
		Provider:    "Microsoft-Windows-Security-Auditing",
		EventID:     5140,
		ParameterSchema: map[string]domain.ParameterSpec{
			"ShareName":       {Type: domain.ParameterTypeString, Required: true},
			"IpAddress":       {Type: domain.ParameterTypeString, Required: true},
			"SubjectUserName": {Type: domain.ParameterTypeString, Required: true},
			"AccessMask":      {Type: domain.ParameterTypeString, Required: false},
		},
		MitreTechniques: []string{"T1021.002"},
	},
	{
		ID:          "win-security-1102",
		Name:        "Audit Log Cleared",
		Description: "The audit log was cleared",
		Category:    domain.EventCategorySecurity,
		Provider:    "Microsoft-Windows-Eventlog",
		EventID:     1102,
		ParameterSchema: map[string]domain.ParameterSpec{
			"SubjectUserName": {Type: domain.ParameterTypeString, Required: true},
		},
		MitreTechniques: []string{"T1070.001"},
	},
	{
		ID:          "win-system-7045",
		Name:        "Service Installed",
		Description: "A service was installed in the system",
		Category:    domain.EventCategorySystem,
		Provider:    "Service Control Manager",
		EventID:     7045,
		ParameterSchema: map[string]domain.ParameterSpec{
			"ServiceName":     {Type: domain.ParameterTypeString, Required: true},
			"ImagePath":       {Type: domain.ParameterTypeString, Required: true},
			"ServiceType":     {Type: domain.ParameterTypeString, Required: false},
			"StartType": {
				Type:          domain.ParameterTypeString,
				Required:      false,
				AllowedValues: []string{"auto start", "demand start", "disabled"},
			},
		},
		MitreTechniques: []string{"T1543.003"},
	},
	{
		ID:          "win-system-104",
		Name:        "Event Log Cleared",
		Description: "The System log file was cleared",
		Category:    domain.EventCategorySystem,
		Provider:    "Microsoft-Windows-Eventlog",
		EventID:     104,
		ParameterSchema: map[string]domain.ParameterSpec{
			"SubjectUserName": {Type: domain.ParameterTypeString, Required: true},
			"Channel":         {Type: domain.ParameterTypeString, Required: false},
		},
		MitreTechniques: []string{"T1070.001"},
	},
	{
		ID:          "win-security-4648",
		Name:        "Explicit Credential Logon",
		Description: "A logon was attempted using explicit credentials",
		Category:    domain.EventCategorySecurity,
		Provider:    "Microsoft-Windows-Security-Auditing",
		EventID:     4648,
		ParameterSchema: map[string]domain.ParameterSpec{
			"SubjectUserName": {Type: domain.ParameterTypeString, Required: true},
			"TargetUserName":  {Type: domain.ParameterTypeString, Required: true},
			"TargetServerName": {Type: domain.ParameterTypeString, Required: false},
			"IpAddress":        {Type: domain.ParameterTypeString, Required: false},
		},
		MitreTechniques: []string{"T1021", "T1078"},
	},
	{
		ID:          "win-security-4698",
		Name:        "Scheduled Task Created",
		Description: "A scheduled task was created",
		Category:    domain.EventCategorySecurity,
		Provider:    "Microsoft-Windows-Security-Auditing",
		EventID:     4698,
		ParameterSchema: map[string]domain.ParameterSpec{
			"TaskName":        {Type: domain.ParameterTypeString, Required: true},
			"SubjectUserName": {Type: domain.ParameterTypeString, Required: true},
			"TaskContent":     {Type: domain.ParameterTypeString, Required: false},
		},
		MitreTechniques: []string{"T1053.005"},
	},
	{
		ID:          "win-app-1000",
		Name:        "Application Error",
		Description: "Faulting application event",
		Category:    domain.EventCategoryApplication,
		Provider:    "Application Error",
		EventID:     1000,
		ParameterSchema: map[string]domain.ParameterSpec{
			"FaultingApplication": {Type: domain.ParameterTypeString, Required: true},
			"FaultingModule":      {Type: domain.ParameterTypeString, Required: false},
			"ExceptionCode":       {Type: domain.ParameterTypeString, Required: false},
		},
	},
}
