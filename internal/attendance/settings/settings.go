package settings

// Settings is the report configuration document stored as JSON. Every field
// is a plain string so two documents compare with ==.
type Settings struct {
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Symbols   Symbols   `json:"symbols"`
	Colors    Colors    `json:"colors"`
	Signature Signature `json:"signature"`
}

// Symbols are written into control report cells that carry no hours
type Symbols struct {
	Absent    string `json:"absent"`
	Vacation  string `json:"vacation"`
	SickLeave string `json:"sick_leave"`
	Leave     string `json:"leave"`
	// EntryOnly marks a single morning punch, ExitOnly a single afternoon punch
	EntryOnly string `json:"entry_only"`
	ExitOnly  string `json:"exit_only"`
}

// Colors are RGB hex values without the leading '#'
type Colors struct {
	WeekendFill string `json:"weekend_fill"`
	SymbolFont  string `json:"symbol_font"`
	HeaderFill  string `json:"header_fill"`
}

// Signature is the sign-off block below the control grid
type Signature struct {
	Label        string `json:"label"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
}

// Defaults returns the document used when no settings file exists
func Defaults() Settings {
	return Settings{
		Title:    "TALLER DE ESTRUCTURAS METÁLICAS",
		Subtitle: "CONTROL DE HORAS Y ASISTENCIA LABORAL",
		Symbols: Symbols{
			Absent:    "Z",
			Vacation:  "V",
			SickLeave: "E",
			Leave:     "P",
			EntryOnly: "HI",
			ExitOnly:  "HS",
		},
		Colors: Colors{
			WeekendFill: "FFFF00",
			SymbolFont:  "FF0000",
			HeaderFill:  "D9D9D9",
		},
		Signature: Signature{
			Label:        "ELABORADO POR",
			Title:        "JEFE ADMINISTRATIVA",
			Organization: "TALLER DE METALMECÁNICA",
		},
	}
}
