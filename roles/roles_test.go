package roles

import "testing"

func TestIsManager(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"Producer", true},
		{"Director", true},
		{"Assistant Director", true},
		{"Gaffer", false},
		{"Director of Photography", false},
		{"Viewer", false},
		{"", false},
		{"producer", false}, // titles are exact-match
	}
	for _, tt := range tests {
		if got := IsManager(tt.role); got != tt.want {
			t.Errorf("IsManager(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestDepartmentFor(t *testing.T) {
	tests := []struct {
		role   string
		dept   string
		wantOK bool
	}{
		{"Director of Photography", "Camera", true},
		{"Gaffer", "Lighting", true},
		{"Boom Operator", "Sound", true},
		{"Editor", "Post-Production", true},
		{"Props Master", "Props", true},
		// Manager titles resolve to no department.
		{"Producer", "", false},
		{"Director", "", false},
		// Unknown or departmentless titles.
		{"Viewer", "", false},
		{"Writer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		dept, ok := DepartmentFor(tt.role)
		if ok != tt.wantOK || dept != tt.dept {
			t.Errorf("DepartmentFor(%q) = (%q, %v), want (%q, %v)", tt.role, dept, ok, tt.dept, tt.wantOK)
		}
	}
}

func TestIsValid(t *testing.T) {
	for _, r := range ManagerRoles {
		if !IsValid(r) {
			t.Errorf("manager role %q missing from role table", r)
		}
	}
	for r := range roleDepartments {
		if !IsValid(r) {
			t.Errorf("department role %q missing from role table", r)
		}
	}
	if IsValid("Key Gaffer") {
		t.Error("IsValid accepted an unknown title")
	}
}

func TestEveryDepartmentMappingIsListed(t *testing.T) {
	listed := make(map[string]struct{}, len(Departments))
	for _, d := range Departments {
		listed[d] = struct{}{}
	}
	for role, dept := range roleDepartments {
		if _, ok := listed[dept]; !ok {
			t.Errorf("role %q maps to unlisted department %q", role, dept)
		}
	}
}
