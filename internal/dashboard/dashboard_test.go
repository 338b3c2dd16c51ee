package dashboard

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	s := Placeholder(now)

	assert.Equal(t, 156, s.TotalFamilies)
	assert.True(t, s.TotalDonations.Equal(decimal.NewFromInt(125000)))
	assert.Equal(t, "18.5", s.GrowthRate.String())
	require.Len(t, s.Events, 3)
	assert.Equal(t, "Aujourd'hui", s.Events[0].When)
	assert.Equal(t, "Demain", s.Events[1].When)
	assert.Equal(t, "Dans 2 jours", s.Events[2].When)

	cards := s.Cards()
	require.Len(t, cards, 4)
	assert.Equal(t, "156", cards[0].Value)
	assert.Equal(t, "125 000 DT", cards[1].Value)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0 DT", FormatAmount(decimal.Zero))
	assert.Equal(t, "999 DT", FormatAmount(decimal.NewFromInt(999)))
	assert.Equal(t, "1 000 DT", FormatAmount(decimal.NewFromInt(1000)))
	assert.Equal(t, "285 000 DT", FormatAmount(decimal.NewFromInt(285000)))
	assert.Equal(t, "1 234 568 DT", FormatAmount(decimal.RequireFromString("1234567.6")))
	assert.Equal(t, "-12 500 DT", FormatAmount(decimal.NewFromInt(-12500)))
}

func TestMonthlyDonations(t *testing.T) {
	s := MonthlyDonations()
	assert.Len(t, s.Labels, 12)
	assert.Len(t, s.Values, 12)
	assert.Equal(t, "351400", s.Total().String())
}

type countingRenderer struct {
	created   int
	destroyed int
	fail      bool
}

type countingInstance struct {
	r    *countingRenderer
	done bool
}

func (i *countingInstance) Config() []byte { return []byte("{}") }

func (i *countingInstance) Destroy() {
	if !i.done {
		i.done = true
		i.r.destroyed++
	}
}

func (r *countingRenderer) Create(string, Series) (Instance, error) {
	if r.fail {
		return nil, errors.New("no canvas")
	}
	r.created++
	return &countingInstance{r: r}, nil
}

func (r *countingRenderer) live() int { return r.created - r.destroyed }

func TestPanel_Lifecycle(t *testing.T) {
	r := &countingRenderer{}
	p := NewPanel(r, "monthlyDonationsChart")

	_, err := p.Refresh(MonthlyDonations())
	assert.ErrorIs(t, err, ErrNotMounted)

	first, err := p.Mount(MonthlyDonations())
	require.NoError(t, err)
	again, err := p.Mount(MonthlyDonations())
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, r.live())

	for range 3 {
		_, err := p.Refresh(MonthlyDonations())
		require.NoError(t, err)
		assert.Equal(t, 1, r.live())
	}
	assert.Equal(t, 4, r.created)

	p.Unmount()
	assert.Equal(t, 0, r.live())
	assert.Nil(t, p.Instance())
	p.Unmount()
	assert.Equal(t, 4, r.destroyed)
}

func TestPanel_CreateFailure(t *testing.T) {
	r := &countingRenderer{}
	p := NewPanel(r, "c")
	_, err := p.Mount(MonthlyDonations())
	require.NoError(t, err)

	r.fail = true
	_, err = p.Refresh(MonthlyDonations())
	require.Error(t, err)
	assert.Nil(t, p.Instance())
	assert.Equal(t, 0, r.live())
}

func TestChartJS(t *testing.T) {
	inst, err := ChartJS{}.Create("monthlyDonationsChart", MonthlyDonations())
	require.NoError(t, err)

	var cfg struct {
		Canvas string `json:"canvas"`
		Type   string `json:"type"`
		Data   struct {
			Labels   []string `json:"labels"`
			Datasets []struct {
				Label string    `json:"label"`
				Data  []float64 `json:"data"`
			} `json:"datasets"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(inst.Config(), &cfg))
	assert.Equal(t, "monthlyDonationsChart", cfg.Canvas)
	assert.Equal(t, "line", cfg.Type)
	assert.Equal(t, "Fév", cfg.Data.Labels[1])
	require.Len(t, cfg.Data.Datasets, 1)
	assert.Equal(t, "Dons (DT)", cfg.Data.Datasets[0].Label)
	assert.InDelta(t, 41000, cfg.Data.Datasets[0].Data[11], 0.001)

	inst.Destroy()
	assert.Nil(t, inst.Config())
	inst.Destroy()

	_, err = ChartJS{}.Create("", MonthlyDonations())
	assert.Error(t, err)
	_, err = ChartJS{}.Create("c", Series{Labels: []string{"a"}})
	assert.Error(t, err)
}
