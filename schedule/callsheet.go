package schedule

import (
	"fmt"
	"strings"

	"github.com/adhithyakrishna0/nova-script-analyst/models"
)

const sheetRule = "================================================================================"
const sectionRule = "--------------------------------------------------------------------------------"

// BuildCallSheet assembles the plain-text call sheet for one shoot day.
func BuildCallSheet(project models.Project, day models.ShootDay, scenes []models.Scene) string {
	var b strings.Builder

	b.WriteString(sheetRule + "\n")
	b.WriteString("                              CALL SHEET\n")
	b.WriteString(sheetRule + "\n\n")

	fmt.Fprintf(&b, "PROJECT: %s\n", project.Name)
	fmt.Fprintf(&b, "DATE: %s\n", day.ShootDate.Format("Monday, January 2, 2006"))
	fmt.Fprintf(&b, "STATUS: %s\n\n", strings.ToUpper(day.Status))

	b.WriteString(sectionRule + "\n")
	b.WriteString("                              NOTES\n")
	b.WriteString(sectionRule + "\n")
	notes := day.Notes
	if notes == "" {
		notes = "No notes for this day."
	}
	b.WriteString(notes + "\n\n")

	b.WriteString(sectionRule + "\n")
	b.WriteString("                              SCENES\n")
	b.WriteString(sectionRule + "\n")
	for _, s := range scenes {
		heading := s.Heading
		if heading == "" {
			heading = "Untitled"
		}
		location := s.SpecificLocation
		if location == "" {
			location = "TBD"
		}
		timeOfDay := s.TimeOfDay
		if timeOfDay == "" {
			timeOfDay = "DAY"
		}
		cast := s.CharactersPresent
		if cast == "" {
			cast = "TBD"
		}

		fmt.Fprintf(&b, "\nScene %d: %s\n", s.SceneNumber, heading)
		fmt.Fprintf(&b, "  Location: %s - %s\n", s.LocationType, location)
		fmt.Fprintf(&b, "  Time: %s\n", timeOfDay)
		fmt.Fprintf(&b, "  Cast: %s\n", cast)
	}

	b.WriteString("\n" + sectionRule + "\n")
	b.WriteString("                              CREW CALL TIMES\n")
	b.WriteString(sectionRule + "\n")
	b.WriteString("(To be filled in by production)\n\n")
	b.WriteString(sheetRule + "\n")

	return b.String()
}
