package hazard

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is one TRBS hazard group with its fixed list of hazards.
type Category struct {
	ID      string
	Name    string
	Hazards []string
}

// Taxonomy is the fixed TRBS-style hazard catalogue. Permits reference
// entries as "<categoryID>-<index>" strings; the catalogue itself is never
// edited at runtime.
var Taxonomy = []Category{
	{ID: "1", Name: "Mechanische Gefährdungen", Hazards: []string{
		"Ungeschützt bewegte Maschinenteile",
		"Teile mit gefährlichen Oberflächen",
		"Bewegte Transportmittel und Arbeitsmittel",
		"Unkontrolliert bewegte Teile",
		"Sturz, Ausrutschen, Stolpern, Umknicken",
		"Absturz",
	}},
	{ID: "2", Name: "Elektrische Gefährdungen", Hazards: []string{
		"Elektrischer Schlag",
		"Lichtbögen",
		"Elektrostatische Aufladungen",
	}},
	{ID: "3", Name: "Gefahrstoffe", Hazards: []string{
		"Einatmen von Gasen, Dämpfen und Aerosolen",
		"Hautkontakt mit Gefahrstoffen",
		"Verschlucken von Gefahrstoffen",
		"Durchtränkung der Kleidung",
	}},
	{ID: "4", Name: "Biologische Arbeitsstoffe", Hazards: []string{
		"Infektionsgefährdung",
		"Sensibilisierende Wirkungen",
		"Toxische Wirkungen",
	}},
	{ID: "5", Name: "Brand- und Explosionsgefährdungen", Hazards: []string{
		"Brennbare Feststoffe, Flüssigkeiten, Gase",
		"Explosionsfähige Atmosphäre",
		"Explosivstoffe",
		"Heißarbeiten in brandgefährdeten Bereichen",
	}},
	{ID: "6", Name: "Thermische Gefährdungen", Hazards: []string{
		"Kontakt mit heißen Medien oder Oberflächen",
		"Kontakt mit kalten Medien oder Oberflächen",
	}},
	{ID: "7", Name: "Physikalische Einwirkungen", Hazards: []string{
		"Lärm",
		"Ultraschall, Infraschall",
		"Ganzkörpervibrationen",
		"Hand-Arm-Vibrationen",
		"Optische Strahlung",
		"Ionisierende Strahlung",
		"Elektromagnetische Felder",
		"Unter- und Überdruck",
	}},
	{ID: "8", Name: "Arbeitsumgebungsbedingungen", Hazards: []string{
		"Klima (Hitze, Kälte, Zugluft)",
		"Beleuchtung, Licht",
		"Ertrinken",
		"Sauerstoffmangel in engen Räumen",
	}},
	{ID: "9", Name: "Physische Belastung", Hazards: []string{
		"Schwere dynamische Arbeit",
		"Einseitig dynamische Arbeit",
		"Haltungsarbeit, Zwangshaltungen",
		"Kombination physischer Belastungsfaktoren",
	}},
	{ID: "10", Name: "Psychische Faktoren", Hazards: []string{
		"Arbeitsintensität, Zeitdruck",
		"Handlungsspielraum",
		"Soziale Beziehungen",
		"Arbeitszeitgestaltung",
	}},
	{ID: "11", Name: "Sonstige Gefährdungen", Hazards: []string{
		"Durch Menschen (Überfall)",
		"Durch Tiere",
		"Durch Pflanzen und pflanzliche Produkte",
	}},
}

// ParseRef splits a "<categoryID>-<index>" hazard reference. It does not
// check the reference against the taxonomy.
func ParseRef(ref string) (categoryID string, index int, err error) {
	sep := strings.LastIndex(ref, "-")
	if sep <= 0 || sep == len(ref)-1 {
		return "", 0, fmt.Errorf("malformed hazard reference %q", ref)
	}
	index, convErr := strconv.Atoi(ref[sep+1:])
	if convErr != nil || index < 0 {
		return "", 0, fmt.Errorf("malformed hazard reference %q", ref)
	}
	return ref[:sep], index, nil
}

// Resolve looks a hazard reference up in the taxonomy.
func Resolve(ref string) (category Category, hazard string, ok bool) {
	categoryID, index, err := ParseRef(ref)
	if err != nil {
		return Category{}, "", false
	}
	for _, c := range Taxonomy {
		if c.ID != categoryID {
			continue
		}
		if index >= len(c.Hazards) {
			return Category{}, "", false
		}
		return c, c.Hazards[index], true
	}
	return Category{}, "", false
}

// Label returns a display label for a hazard reference. Unresolvable
// references degrade to a placeholder instead of failing.
func Label(ref string) string {
	category, hazard, ok := Resolve(ref)
	if !ok {
		return fmt.Sprintf("Unbekannte Gefährdung (%s)", ref)
	}
	return category.Name + ": " + hazard
}
