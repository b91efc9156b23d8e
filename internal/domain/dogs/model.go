package dogs

// Dog es el registro que devuelve la API (POST /dogs).
// Se trata como valor: una vez traído no se modifica.
type Dog struct {
	ID      string `json:"id"`
	Img     string `json:"img"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	ZipCode string `json:"zip_code"`
	Breed   string `json:"breed"`
}

// Reorder devuelve records en el orden de ids.
// POST /dogs no respeta el orden del search; ids sin registro se omiten.
func Reorder(ids []string, records []Dog) []Dog {
	byID := make(map[string]Dog, len(records))
	for _, d := range records {
		byID[d.ID] = d
	}

	out := make([]Dog, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// IndexByID busca id en list.
func IndexByID(list []Dog, id string) int {
	for i, d := range list {
		if d.ID == id {
			return i
		}
	}
	return -1
}
