package models

// Subjects in display order.
var Subjects = []string{"matematyka", "polski", "angielski"}

var Scopes = []string{"podstawa", "rozszerzenie"}

// SubjectSections lists the sections ("działy") a task or material may be filed
// under, per subject.
var SubjectSections = map[string][]string{
	"matematyka": {
		"Liczby rzeczywiste i wyrażenia algebraiczne",
		"Zbiory, wartość bezwzględna i nierówności",
		"Funkcje",
		"Funkcja liniowa",
		"Funkcja kwadratowa",
		"Wielomiany i wyrażenia wymierne",
		"Funkcja wykładnicza i funkcja logarytmiczna",
		"Trygonometria",
		"Ciągi",
		"Planimetria",
		"Geometria analityczna",
		"Stereometria",
		"Rachunek prawdopodobieństwa",
		"Statystyka",
	},
	"polski": {
		"Czytanie ze zrozumieniem",
		"Lektury obowiązkowe",
		"Środki stylistyczne",
		"Epoki literackie",
		"Wypowiedź argumentacyjna",
		"Gramatyka i język",
	},
	"angielski": {
		"Reading",
		"Listening",
		"Use of English",
		"Writing",
		"Grammar",
		"Vocabulary",
		"Picture description",
	},
}

// SectionSubtopics holds the optional second level of a section.
var SectionSubtopics = map[string]map[string][]string{
	"angielski": {
		"Vocabulary": {"Personal details", "Feelings and emotions"},
	},
}

func ValidSubject(subject string) bool {
	_, ok := SubjectSections[subject]
	return ok
}

func ValidScope(scope string) bool {
	return contains(Scopes, scope)
}

func ValidSection(subject, section string) bool {
	return contains(SubjectSections[subject], section)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
