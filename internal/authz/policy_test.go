package authz

import "testing"

func TestAllowedTiers(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		op    Operation
		want  bool
	}{
		{"employee reads items", []string{RoleEmployee}, OpItemRead, true},
		{"employee creates transactions", []string{RoleEmployee}, OpTransactionCreate, true},
		{"employee views alerts", []string{RoleEmployee}, OpAlertRead, true},
		{"employee cannot read all transactions", []string{RoleEmployee}, OpTransactionReadAll, false},
		{"employee cannot touch orders", []string{RoleEmployee}, OpOrderWrite, false},
		{"employee cannot create items", []string{RoleEmployee}, OpItemWrite, false},
		{"employee cannot create categories", []string{RoleEmployee}, OpCategoryWrite, false},
		{"employee cannot resolve alerts", []string{RoleEmployee}, OpAlertResolve, false},
		{"employee cannot delete items", []string{RoleEmployee}, OpItemDelete, false},

		{"manager writes orders", []string{RoleManager}, OpOrderWrite, true},
		{"manager creates items", []string{RoleManager}, OpItemWrite, true},
		{"manager resolves alerts", []string{RoleManager}, OpAlertResolve, true},
		{"manager sweeps alerts", []string{RoleManager}, OpAlertSweep, true},
		{"manager reads full history", []string{RoleManager}, OpTransactionReadAll, true},
		{"manager inherits employee ops", []string{RoleManager}, OpItemRead, true},
		{"manager cannot delete categories", []string{RoleManager}, OpCategoryDelete, false},
		{"manager cannot manage users", []string{RoleManager}, OpUserManage, false},

		{"admin deletes items", []string{RoleAdmin}, OpItemDelete, true},
		{"admin manages users", []string{RoleAdmin}, OpUserManage, true},
		{"admin inherits manager ops", []string{RoleAdmin}, OpOrderWrite, true},

		{"unknown role denied", []string{"auditor"}, OpItemRead, false},
		{"empty role set denied", nil, OpItemRead, false},
		{"any matching role suffices", []string{"auditor", RoleManager}, OpOrderRead, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.roles, tt.op); got != tt.want {
				t.Errorf("Allowed(%v, %q) = %v, want %v", tt.roles, tt.op, got, tt.want)
			}
		})
	}
}

func TestUnknownOperationDenied(t *testing.T) {
	if Allowed([]string{RoleAdmin}, Operation("report.generate")) {
		t.Error("unknown operation must be denied even for admin")
	}
}
