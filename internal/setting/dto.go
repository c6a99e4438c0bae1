package setting

type UpdateSettingDTO struct {
	Valor string `json:"valor"`
}

type KeyValue struct {
	Chave string `json:"chave" validate:"required"`
	Valor string `json:"valor"`
}

type UpdateManyDTO struct {
	Updates []KeyValue `json:"updates" validate:"required,min=1,dive"`
}

type SettingsResponse struct {
	Configuracoes []*Setting `json:"configuracoes"`
}

// GroupedResponse keys settings by categoria, each group ordered by chave.
type GroupedResponse struct {
	Categorias map[string][]*Setting `json:"categorias"`
}
