package settlement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tms-settlements/internal/application/settlement"
	"github.com/jhoicas/tms-settlements/internal/domain"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
)

type capturingPDF struct {
	lines []entity.SettlementLine
	err   error
}

func (g *capturingPDF) GenerateStatementPDF(_ context.Context, _ *entity.Settlement, _ *entity.Company, _ *entity.Driver, lines []entity.SettlementLine) ([]byte, error) {
	g.lines = lines
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

func newQueryFixture() (*settlement.QueryUseCase, *capturingPDF) {
	companies := &fakeCompanies{items: []*entity.Company{newCompany("c1", true)}}
	drivers := &fakeDrivers{items: []*entity.Driver{newDriver("d1", "c1")}}
	loads := &fakeLoads{items: []*entity.Load{
		newLoad("l1", "d1", entity.LoadStatusDelivered, midLastWeek, "0"),
		newLoad("l2", "d1", entity.LoadStatusDelivered, midLastWeek, "300"),
	}}
	settlements := &fakeSettlements{items: []*entity.Settlement{
		{ID: "s1", CompanyID: "c1", DriverID: "d1", SettlementNumber: "STL-1", LoadIDs: []string{"l1", "l2"}},
		{ID: "s2", CompanyID: "c2", DriverID: "d9", SettlementNumber: "STL-2"},
	}}
	gen := &capturingPDF{}
	return settlement.NewQueryUseCase(settlements, companies, drivers, loads, gen), gen
}

func TestQuery_GetRespetaEmpresa(t *testing.T) {
	uc, _ := newQueryFixture()

	s, err := uc.Get(context.Background(), "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "STL-1", s.SettlementNumber)

	_, err = uc.Get(context.Background(), "c1", "s2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Get(context.Background(), "c1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_ListRequiereEmpresa(t *testing.T) {
	uc, _ := newQueryFixture()

	_, _, err := uc.List(context.Background(), repository.SettlementListFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	items, total, err := uc.List(context.Background(), repository.SettlementListFilter{CompanyID: "c1", Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
}

func TestQuery_StatementPDFArmaLineas(t *testing.T) {
	uc, gen := newQueryFixture()

	pdf, filename, err := uc.StatementPDF(context.Background(), "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "settlement_STL-1.pdf", filename)
	assert.Equal(t, []byte("%PDF-fake"), pdf)

	require.Len(t, gen.lines, 2)
	pay := map[string]decimal.Decimal{}
	for _, l := range gen.lines {
		pay[l.LoadID] = l.Pay
	}
	// l1 sin DriverPay: 500 millas * 0.60.
	assert.True(t, pay["l1"].Equal(decimal.NewFromInt(300)), pay["l1"].String())
	assert.True(t, pay["l2"].Equal(decimal.NewFromInt(300)), pay["l2"].String())
}

func TestQuery_StatementPDFErrorDelGenerador(t *testing.T) {
	uc, gen := newQueryFixture()
	gen.err = errors.New("fuente no encontrada")

	_, _, err := uc.StatementPDF(context.Background(), "c1", "s1")
	assert.ErrorContains(t, err, "fuente no encontrada")
}
