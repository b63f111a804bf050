package settlement

import (
	"context"
	"fmt"

	"github.com/jhoicas/tms-settlements/internal/domain"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
)

// QueryUseCase consultas de liquidaciones (listado, detalle, estado de cuenta PDF).
type QueryUseCase struct {
	settlements repository.SettlementRepository
	companies   repository.CompanyRepository
	drivers     repository.DriverRepository
	loads       repository.LoadRepository
	generator   StatementPDFGenerator
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	settlements repository.SettlementRepository,
	companies repository.CompanyRepository,
	drivers repository.DriverRepository,
	loads repository.LoadRepository,
	generator StatementPDFGenerator,
) *QueryUseCase {
	return &QueryUseCase{
		settlements: settlements,
		companies:   companies,
		drivers:     drivers,
		loads:       loads,
		generator:   generator,
	}
}

// List liquidaciones de la empresa con filtros y total.
func (uc *QueryUseCase) List(ctx context.Context, f repository.SettlementListFilter) ([]*entity.Settlement, int, error) {
	if f.CompanyID == "" {
		return nil, 0, domain.ErrInvalidInput
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.settlements.List(ctx, f)
}

// Get detalle de una liquidación. domain.ErrForbidden si pertenece a otra empresa.
func (uc *QueryUseCase) Get(ctx context.Context, companyID, id string) (*entity.Settlement, error) {
	s, err := uc.settlements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// StatementPDF genera el estado de cuenta del conductor para la liquidación.
func (uc *QueryUseCase) StatementPDF(ctx context.Context, companyID, id string) (pdfBytes []byte, filename string, err error) {
	s, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}

	company, err := uc.companies.GetByID(ctx, s.CompanyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", fmt.Errorf("pdf: empresa %s: %w", s.CompanyID, domain.ErrNotFound)
	}
	driver, err := uc.drivers.GetByID(ctx, s.DriverID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener conductor: %w", err)
	}
	if driver == nil {
		return nil, "", fmt.Errorf("pdf: conductor %s: %w", s.DriverID, domain.ErrNotFound)
	}
	loads, err := uc.loads.ListByIDs(ctx, s.LoadIDs)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cargas: %w", err)
	}

	lines := make([]entity.SettlementLine, 0, len(loads))
	for _, l := range loads {
		lines = append(lines, entity.SettlementLine{
			LoadID:       l.ID,
			LoadNumber:   l.LoadNumber,
			PickupCity:   l.PickupCity,
			DeliveryCity: l.DeliveryCity,
			DeliveredAt:  l.DeliveredAt,
			Miles:        l.TotalMiles,
			Pay:          LoadPay(driver, l),
		})
	}

	pdfBytes, err = uc.generator.GenerateStatementPDF(ctx, s, company, driver, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("settlement_%s.pdf", s.SettlementNumber), nil
}
