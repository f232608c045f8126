// Package roles holds the closed tables mapping production job titles to
// access classes and budget departments. Titles are validated at the auth
// boundary; anything not listed here cannot be assigned to a profile.
package roles

// ManagerRoles have full CRUD over scenes, schedule, crew and call sheets.
// Everyone else is restricted to budget submissions for their own department.
var ManagerRoles = []string{
	"Producer",
	"Executive Producer",
	"Line Producer",
	"Director",
	"Production Manager",
	"Assistant Director",
}

// Departments is the fixed list of production cost categories, in display order.
var Departments = []string{
	"Camera",
	"Lighting",
	"Sound",
	"Art Department",
	"Costumes",
	"Makeup & Hair",
	"Props",
	"Location",
	"Cast",
	"Crew",
	"Equipment Rental",
	"Transportation",
	"Catering",
	"Post-Production",
	"VFX",
	"Music",
	"Insurance",
	"Permits",
	"Miscellaneous",
}

// roleDepartments maps a job title to the department it submits budget for.
// Titles absent from this table have no department and cannot submit entries.
var roleDepartments = map[string]string{
	"Director of Photography":  "Camera",
	"Camera Operator":          "Camera",
	"1st AC":                   "Camera",
	"2nd AC":                   "Camera",
	"DIT":                      "Camera",
	"Steadicam Operator":       "Camera",
	"Drone Operator":           "Camera",
	"Gaffer":                   "Lighting",
	"Best Boy Electric":        "Lighting",
	"Electrician":              "Lighting",
	"Key Grip":                 "Lighting",
	"Best Boy Grip":            "Lighting",
	"Dolly Grip":               "Lighting",
	"Production Sound Mixer":   "Sound",
	"Boom Operator":            "Sound",
	"Sound Assistant":          "Sound",
	"Sound Designer":           "Sound",
	"Production Designer":      "Art Department",
	"Art Director":             "Art Department",
	"Set Designer":             "Art Department",
	"Set Decorator":            "Art Department",
	"Construction Coordinator": "Art Department",
	"Props Master":             "Props",
	"Costume Designer":         "Costumes",
	"Wardrobe Supervisor":      "Costumes",
	"Makeup Department Head":   "Makeup & Hair",
	"Hair Department Head":     "Makeup & Hair",
	"Special Effects Makeup":   "Makeup & Hair",
	"Editor":                   "Post-Production",
	"Assistant Editor":         "Post-Production",
	"Colorist":                 "Post-Production",
	"VFX Supervisor":           "VFX",
	"VFX Artist":               "VFX",
	"Compositor":               "VFX",
	"Location Manager":         "Location",
	"Location Scout":           "Location",
}

// AllRoles is every job title a profile may carry.
var AllRoles = []string{
	// Leadership
	"Producer", "Executive Producer", "Line Producer", "Director", "Assistant Director",
	// Production
	"Production Manager", "Production Coordinator", "Production Assistant",
	// Camera
	"Director of Photography", "Camera Operator", "1st AC", "2nd AC", "DIT", "Steadicam Operator", "Drone Operator",
	// Lighting
	"Gaffer", "Best Boy Electric", "Electrician", "Key Grip", "Best Boy Grip", "Dolly Grip",
	// Sound
	"Production Sound Mixer", "Boom Operator", "Sound Assistant", "Sound Designer",
	// Art
	"Production Designer", "Art Director", "Set Designer", "Set Decorator", "Construction Coordinator",
	// Costume & Makeup
	"Costume Designer", "Wardrobe Supervisor", "Makeup Department Head", "Hair Department Head", "Special Effects Makeup",
	// Post-Production
	"Editor", "Assistant Editor", "Colorist", "VFX Supervisor", "VFX Artist", "Compositor",
	// Creative
	"Writer", "Storyboard Artist", "Concept Artist",
	// Other
	"Location Manager", "Location Scout", "Casting Director", "Stunt Coordinator", "Choreographer",
	"Composer", "Publicist", "Still Photographer", "Props Master", "Viewer",
}

var (
	managerSet = make(map[string]struct{}, len(ManagerRoles))
	roleSet    = make(map[string]struct{}, len(AllRoles))
)

func init() {
	for _, r := range ManagerRoles {
		managerSet[r] = struct{}{}
	}
	for _, r := range AllRoles {
		roleSet[r] = struct{}{}
	}
}

// IsValid reports whether the title exists in the role table.
func IsValid(role string) bool {
	_, ok := roleSet[role]
	return ok
}

// IsManager reports whether the title belongs to the manager class.
func IsManager(role string) bool {
	_, ok := managerSet[role]
	return ok
}

// DepartmentFor returns the budget department for a job title. The ok flag is
// false for titles with no department, including all manager titles.
func DepartmentFor(role string) (string, bool) {
	dept, ok := roleDepartments[role]
	return dept, ok
}
