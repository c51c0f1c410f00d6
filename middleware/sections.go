package middleware

import "municipalink/database"

// Section is an entry of the dashboard navigation.
type Section struct {
	Key   string   `json:"key"`
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Roles []string `json:"-"`
}

var all = []string{database.RoleAdmin, database.RoleEmployee, database.RoleFinance}

// Sections drives both the navigation returned to the dashboard and the
// role checks on the matching API routes.
var Sections = []Section{
	{Key: "dashboard", Title: "Tableau de Bord", URL: "/dashboard", Roles: all},
	{Key: "biens", Title: "Biens", URL: "/biens", Roles: []string{database.RoleAdmin, database.RoleEmployee}},
	{Key: "locations", Title: "Locations", URL: "/locations", Roles: []string{database.RoleAdmin, database.RoleEmployee}},
	{Key: "ventes", Title: "Ventes", URL: "/ventes", Roles: []string{database.RoleAdmin, database.RoleEmployee}},
	{Key: "paiements", Title: "Paiements", URL: "/paiements", Roles: []string{database.RoleAdmin, database.RoleFinance}},
	{Key: "users", Title: "Utilisateurs", URL: "/users", Roles: []string{database.RoleAdmin}},
}

// SectionRoles returns the roles allowed on section. Unknown sections are
// admin only.
func SectionRoles(section string) []string {
	for _, s := range Sections {
		if s.Key == section {
			return s.Roles
		}
	}
	return []string{database.RoleAdmin}
}

// SectionsFor lists the sections visible to role, in menu order.
func SectionsFor(role string) []Section {
	out := []Section{}
	for _, s := range Sections {
		for _, r := range s.Roles {
			if r == role {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
