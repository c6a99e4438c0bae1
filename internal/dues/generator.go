package dues

import (
	"context"
	"fmt"
	"time"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/core/common/validation"
	duesDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/dues"
	"github.com/frahmantamala/association-management/internal/core/events"
	"github.com/frahmantamala/association-management/internal/setting"
)

// GenerateForMonth creates one unpaid record at the default amount for every
// active employee missing one in the period. Zero year or month means the
// current calendar month. Failures are reported in the result, never as an
// error.
func (s *Service) GenerateForMonth(ctx context.Context, year, month int) GenerationResult {
	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	log := s.logger.With("ano", year, "mes", month)

	created, note, err := s.generate(ctx, year, month)
	if err != nil {
		log.Error("dues generation failed", "error", err)
		return GenerationResult{Success: false, Created: 0, Errors: []string{err.Error()}}
	}

	result := GenerationResult{Success: true, Created: created, Errors: []string{}}
	if note != "" {
		result.Errors = append(result.Errors, note)
	}

	if created > 0 {
		if s.metrics != nil {
			s.metrics.DuesGenerated(created)
		}
		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, events.NewDuesGeneratedEvent(year, month, created)); err != nil {
				log.Error("failed to publish dues generated event", "error", err)
			}
		}
	}

	log.Info("dues generation finished", "created", created)
	return result
}

func (s *Service) generate(ctx context.Context, year, month int) (int, string, error) {
	if verr := validation.ValidatePeriod(year, month); verr != nil {
		return 0, "", verr
	}

	amount := s.settings.GetDecimal(ctx, setting.KeyDefaultDuesAmount)

	active, err := s.repo.ActiveEmployeeIDs(ctx)
	if err != nil {
		return 0, "", err
	}
	if len(active) == 0 {
		return 0, "", nil
	}

	existing, err := s.repo.EmployeeIDsForPeriod(ctx, year, month)
	if err != nil {
		return 0, "", err
	}
	has := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		has[id] = struct{}{}
	}

	rows := make([]*duesDatamodel.DuesRecord, 0, len(active))
	for _, id := range active {
		if _, ok := has[id]; ok {
			continue
		}
		rows = append(rows, &duesDatamodel.DuesRecord{
			FuncionarioID:    id,
			Ano:              year,
			Mes:              month,
			ValorMensalidade: amount,
			Pago:             false,
		})
	}
	if len(rows) == 0 {
		return 0, MsgAllGenerated, nil
	}

	inserted, err := s.repo.InsertMissing(ctx, rows)
	if err != nil {
		return 0, "", err
	}
	return int(inserted), "", nil
}

// GenerateForRange runs GenerateForMonth for every month from start to end
// inclusive. Months are independent: one failing month does not undo the
// others. Success means no month reported anything in Errors.
func (s *Service) GenerateForRange(ctx context.Context, yearStart, monthStart, yearEnd, monthEnd int) (GenerationResult, error) {
	if verr := validateRange(yearStart, monthStart, yearEnd, monthEnd); verr != nil {
		return GenerationResult{}, verr
	}

	total := 0
	errs := []string{}

	year, month := yearStart, monthStart
	for year < yearEnd || (year == yearEnd && month <= monthEnd) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err.Error())
			break
		}

		result := s.GenerateForMonth(ctx, year, month)
		total += result.Created
		errs = append(errs, result.Errors...)

		month++
		if month > 12 {
			month = 1
			year++
		}
	}

	return GenerationResult{
		Success: len(errs) == 0,
		Created: total,
		Errors:  errs,
	}, nil
}

func validateRange(yearStart, monthStart, yearEnd, monthEnd int) *errors.AppError {
	v := validation.NewValidator()
	v.Field("ano_inicio", yearStart).IntRange(2000, 2100, errors.ErrCodeInvalidPeriod)
	v.Field("mes_inicio", monthStart).IntRange(1, 12, errors.ErrCodeInvalidPeriod)
	v.Field("ano_fim", yearEnd).IntRange(2000, 2100, errors.ErrCodeInvalidPeriod)
	v.Field("mes_fim", monthEnd).IntRange(1, 12, errors.ErrCodeInvalidPeriod)
	if verr := v.Validate(); verr != nil {
		return verr
	}

	if yearStart*12+monthStart > yearEnd*12+monthEnd {
		return errors.NewValidationFieldError("mes_fim",
			fmt.Sprintf("O período final (%02d/%d) é anterior ao inicial (%02d/%d)", monthEnd, yearEnd, monthStart, yearStart),
			errors.ErrCodeInvalidPeriod)
	}
	return nil
}
