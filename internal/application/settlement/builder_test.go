package settlement_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tms-settlements/internal/application/settlement"
	"github.com/jhoicas/tms-settlements/internal/domain"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	domainsettlement "github.com/jhoicas/tms-settlements/internal/domain/settlement"
	"github.com/jhoicas/tms-settlements/pkg/logger"
)

func TestLoadPay(t *testing.T) {
	d := func(payType, rate string) *entity.Driver {
		return &entity.Driver{PayType: payType, PayRate: decimal.RequireFromString(rate)}
	}
	load := &entity.Load{
		TotalMiles: decimal.NewFromInt(1000),
		Revenue:    decimal.NewFromInt(3000),
	}

	tests := []struct {
		name   string
		driver *entity.Driver
		load   *entity.Load
		want   string
	}{
		{"por milla", d(entity.PayTypePerMile, "0.55"), load, "550"},
		{"porcentaje", d(entity.PayTypePercentage, "25"), load, "750"},
		{"por carga", d(entity.PayTypePerLoad, "400"), load, "400"},
		{"tipo desconocido", d("HOURLY", "30"), load, "0"},
		{"driver pay explícito gana", d(entity.PayTypePerMile, "0.55"), &entity.Load{DriverPay: decimal.RequireFromString("912.34"), TotalMiles: decimal.NewFromInt(1000)}, "912.34"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, settlement.LoadPay(tt.driver, tt.load).String())
		})
	}
}

func TestLoadPayBuilder_Build(t *testing.T) {
	drivers := &fakeDrivers{items: []*entity.Driver{newDriver("d1", "c1")}}
	loads := &fakeLoads{items: []*entity.Load{
		newLoad("a", "d1", entity.LoadStatusDelivered, midLastWeek, "850.50"),
		newLoad("b", "d1", entity.LoadStatusPaid, midLastWeek, "0"), // 500 mi * 0.60
		newLoad("c", "d1", entity.LoadStatusCancelled, midLastWeek, "999"),
	}}
	settlements := &fakeSettlements{}
	b := settlement.NewLoadPayBuilder(drivers, &fakeTx{loads: loads, settlements: settlements})

	st, err := b.Build(context.Background(), "d1", lastMonday, lastSunday)

	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)
	assert.Regexp(t, `^STL-20261011-D-d1-[0-9A-F]{32}$`, st.SettlementNumber)
	assert.Equal(t, "c1", st.CompanyID)
	assert.Equal(t, "1150.5", st.GrossPay.String())
	assert.True(t, st.Deductions.IsZero())
	assert.True(t, st.NetPay.Equal(st.GrossPay))
	assert.ElementsMatch(t, []string{"a", "b"}, st.LoadIDs)
	assert.Len(t, settlements.items, 1)
}

func TestLoadPayBuilder_NumerosUnicosEntreEmpresas(t *testing.T) {
	// Mismo número de conductor en dos empresas y el mismo periodo.
	d1 := newDriver("d1", "c1")
	d2 := newDriver("d2", "c2")
	d1.DriverNumber, d2.DriverNumber = "001", "001"
	loads := &fakeLoads{items: []*entity.Load{
		newLoad("a", "d1", entity.LoadStatusDelivered, midLastWeek, "100"),
		newLoad("b", "d2", entity.LoadStatusDelivered, midLastWeek, "100"),
	}}
	b := settlement.NewLoadPayBuilder(&fakeDrivers{items: []*entity.Driver{d1, d2}}, &fakeTx{loads: loads, settlements: &fakeSettlements{}})

	s1, err := b.Build(context.Background(), "d1", lastMonday, lastSunday)
	require.NoError(t, err)
	s2, err := b.Build(context.Background(), "d2", lastMonday, lastSunday)
	require.NoError(t, err)

	assert.NotEqual(t, s1.SettlementNumber, s2.SettlementNumber)
	assert.Contains(t, s1.SettlementNumber, strings.ToUpper(strings.ReplaceAll(s1.ID, "-", "")))
	assert.LessOrEqual(t, len(s1.SettlementNumber), 80)
}

func TestLoadPayBuilder_NoLoads(t *testing.T) {
	drivers := &fakeDrivers{items: []*entity.Driver{newDriver("d1", "c1")}}
	b := settlement.NewLoadPayBuilder(drivers, &fakeTx{loads: &fakeLoads{}, settlements: &fakeSettlements{}})

	_, err := b.Build(context.Background(), "d1", lastMonday, lastSunday)
	assert.ErrorIs(t, err, settlement.ErrInsufficientData)
}

func TestLoadPayBuilder_UnknownDriver(t *testing.T) {
	b := settlement.NewLoadPayBuilder(&fakeDrivers{}, &fakeTx{loads: &fakeLoads{}, settlements: &fakeSettlements{}})

	_, err := b.Build(context.Background(), "nope", lastMonday, lastSunday)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoadPayBuilder_DuplicatePropagates(t *testing.T) {
	drivers := &fakeDrivers{items: []*entity.Driver{newDriver("d1", "c1")}}
	loads := &fakeLoads{items: []*entity.Load{newLoad("a", "d1", entity.LoadStatusDelivered, midLastWeek, "100")}}
	settlements := &fakeSettlements{}
	b := settlement.NewLoadPayBuilder(drivers, &fakeTx{loads: loads, settlements: settlements})

	_, err := b.Build(context.Background(), "d1", lastMonday, lastSunday)
	require.NoError(t, err)
	_, err = b.Build(context.Background(), "d1", lastMonday, lastSunday)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestEligibilityFilter_EligibleDrivers(t *testing.T) {
	h := newHarness(t)
	h.seedCompany("c1", "d1")
	h.drivers.items = append(h.drivers.items, newDriver("d2", "c1"))
	f := settlement.NewEligibilityFilter(h.drivers, h.loads, logger.Nop())

	got, err := f.EligibleDrivers(context.Background(), "c1", domainsettlement.Period{Start: lastMonday, End: lastSunday}, settlement.PolicyScheduled)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "d1", got[0].ID)
}
