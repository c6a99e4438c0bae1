package audit

type ListResponse struct {
	Logs   []*Entry `json:"logs"`
	Total  int64    `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

// FiltersResponse feeds the action and table dropdowns.
type FiltersResponse struct {
	Acoes   []string `json:"acoes"`
	Tabelas []string `json:"tabelas"`
}
