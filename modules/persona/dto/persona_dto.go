package dto

type CreatePersonaRequest struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

type PersonaResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
}

type PersonaListResponse struct {
	Personas []PersonaResponse `json:"personas"`
}
