package dogsapi

// SearchQuery son los parámetros de GET /dogs/search.
// Campos vacíos o nil no se envían.
type SearchQuery struct {
	Breeds   []string
	ZipCodes []string
	AgeMin   *int
	AgeMax   *int
	Size     int
	From     int
	Sort     string // p.ej. "breed:asc"
}

// SearchPage es la respuesta del search: ids ordenados + cursores opacos.
type SearchPage struct {
	ResultIDs []string `json:"resultIds"`
	Total     int      `json:"total"`
	Next      string   `json:"next,omitempty"`
	Prev      string   `json:"prev,omitempty"`
}

// MaxBatch es el máximo de ids que aceptan POST /dogs y POST /dogs/match.
const MaxBatch = 100
