package model

// Go models that match cv.schema.json, used for validation and rendering.

type Personal struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

type Experience struct {
	Title   string   `json:"title"`
	Company string   `json:"company"`
	Period  string   `json:"period,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Period string `json:"period,omitempty"`
}

type Language struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type Document struct {
	Lang       string       `json:"lang"`
	Template   string       `json:"template,omitempty"`
	Personal   Personal     `json:"personal"`
	Experience []Experience `json:"experience,omitempty"`
	Education  []Education  `json:"education,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	Languages  []Language   `json:"languages,omitempty"`
}
