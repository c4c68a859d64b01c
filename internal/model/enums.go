package model

// Closed enumerations for league classification. Values outside these lists
// fail league validation.

var Sections = []string{
	"USTA/EASTERN",
	"USTA/FLORIDA",
	"USTA/INTERMOUNTAIN",
	"USTA/MIDWEST",
	"USTA/NEW ENGLAND",
	"USTA/NORTHERN",
	"USTA/PACIFIC NW",
	"USTA/SOUTHERN",
	"USTA/SOUTHWEST",
	"USTA/TEXAS",
}

var Regions = []string{
	"ARIZONA",
	"NEW MEXICO",
	"NORTHERN ARIZONA",
	"NORTHERN NEW MEXICO",
	"SOUTHERN ARIZONA",
	"SOUTHERN NEVADA",
}

var AgeGroups = []string{
	"18 & Over",
	"40 & Over",
	"55 & Over",
	"65 & Over",
}

var Divisions = []string{
	"2.5 Women",
	"3.0 Men", "3.0 Women",
	"3.5 Men", "3.5 Women",
	"4.0 Men", "4.0 Women",
	"4.5 Men", "4.5 Women",
	"5.0 Men", "5.0 Women",
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func ValidSection(s string) bool  { return contains(Sections, s) }
func ValidRegion(s string) bool   { return contains(Regions, s) }
func ValidAgeGroup(s string) bool { return contains(AgeGroups, s) }
func ValidDivision(s string) bool { return contains(Divisions, s) }
