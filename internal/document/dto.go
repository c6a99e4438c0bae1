package document

import (
	"strings"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/core/common/validation"
)

// UploadDTO carries the multipart form fields and the file header.
type UploadDTO struct {
	FuncionarioID string
	Nome          string
	Tipo          string
	Descricao     *string
	FileName      string
	ContentType   string
	Size          int64
}

// Normalize falls back to the file name when no display name was given.
func (dto *UploadDTO) Normalize() {
	dto.FuncionarioID = strings.TrimSpace(dto.FuncionarioID)
	dto.Nome = strings.TrimSpace(dto.Nome)
	if dto.Nome == "" {
		dto.Nome = dto.FileName
	}
	if dto.Tipo == "" {
		dto.Tipo = string(TypeOther)
	}
	if dto.Descricao != nil && strings.TrimSpace(*dto.Descricao) == "" {
		dto.Descricao = nil
	}
}

func (dto *UploadDTO) Validate(maxBytes int64) *errors.AppError {
	v := validation.NewValidator()
	v.Field("funcionario_id", dto.FuncionarioID).Required()
	v.Field("arquivo", dto.FileName).Required()
	v.Field("nome", dto.Nome).MaxLength(255)
	v.Field("tipo", dto.Tipo).OneOf(errors.ErrCodeInvalidValue, Types...)
	v.Field("arquivo", dto.Size).Custom(func(value interface{}) *errors.AppError {
		if size, _ := value.(int64); maxBytes > 0 && size > maxBytes {
			return errors.NewValidationFieldError("arquivo", "Arquivo excede o tamanho máximo permitido", errors.ErrCodeFileTooLarge)
		}
		return nil
	})
	return v.Validate()
}

type Filter struct {
	Search        string
	Tipo          string
	FuncionarioID string
	Limit         int
	Offset        int
}

type ListResponse struct {
	Documentos []*Document `json:"documentos"`
	Total      int64       `json:"total"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}
