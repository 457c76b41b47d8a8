package household

import (
	"testing"
)

func TestAnalyzer_EntrySummary(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	got, err := a.EntrySummary(ctx, Expense, family, 2024, All)
	if err != nil {
		t.Fatalf("EntrySummary() error = %v", err)
	}
	checkMoney(t, "Total", got.Total, usd(7860))
	if len(got.Shares) != 2 || got.Shares[0].Label != "Housing" {
		t.Fatalf("EntrySummary() = %v, want Housing first", got.Shares)
	}
	if !got.Shares[0].Percent.Equal(89.06) || !got.Shares[1].Percent.Equal(10.94) {
		t.Errorf("percentages = %v, %v, want 89.06, 10.94", got.Shares[0].Percent, got.Shares[1].Percent)
	}

	incomes, err := a.EntrySummary(ctx, Income, family, 2024, USD)
	if err != nil {
		t.Fatalf("EntrySummary(Income) error = %v", err)
	}
	checkMoney(t, "income Total", incomes.Total, usd(8000))
}

func TestAnalyzer_EntryMinorSummary(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	got, err := a.EntryMinorSummary(ctx, Expense, family, 2024, 1, All)
	if err != nil {
		t.Fatalf("EntryMinorSummary() error = %v", err)
	}
	minors := shares(got)
	checkMoney(t, "Rent", minors["11"], usd(2000))
	checkMoney(t, "Repairs", minors["12"], usd(5000))
}

func TestAnalyzer_EntryMonthlyTrend(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	tests := []struct {
		minor int64
		want  map[int]Money
	}{
		{0, map[int]Money{0: usd(1360), 1: usd(1500), 2: usd(5000), 3: usd(0)}},
		{11, map[int]Money{0: usd(1000), 1: usd(1000), 2: usd(0)}},
	}
	for _, tt := range tests {
		got, err := a.EntryMonthlyTrend(ctx, Expense, family, 2024, tt.minor, All)
		if err != nil {
			t.Fatalf("EntryMonthlyTrend() error = %v", err)
		}
		if len(got) != 12 {
			t.Fatalf("EntryMonthlyTrend() has %d months, want 12", len(got))
		}
		for i, want := range tt.want {
			checkMoney(t, got[i].Period, got[i].Value, want)
		}
	}
}

func TestAnalyzer_RecomputeAnnualExpenseSummary(t *testing.T) {
	a, m := newTestAnalyzer(t)
	rows, err := a.RecomputeAnnualExpenseSummary(ctx, family, 2024)
	if err != nil {
		t.Fatalf("RecomputeAnnualExpenseSummary() error = %v", err)
	}
	tests := []struct {
		major                  int64
		base, special, actual string
	}{
		{1, "2000", "5000", "7000"},
		{2, "860", "0", "860"},
		{0, "2860", "5000", "7860"},
	}
	if len(rows) != len(tests) {
		t.Fatalf("RecomputeAnnualExpenseSummary() = %d rows, want %d", len(rows), len(tests))
	}
	for i, tt := range tests {
		r := rows[i]
		if r.MajorID != tt.major {
			t.Errorf("row %d is major %d, want %d", i, r.MajorID, tt.major)
		}
		checkDecimal(t, "Base", r.Base, tt.base)
		checkDecimal(t, "Special", r.Special, tt.special)
		checkDecimal(t, "Actual", r.Actual, tt.actual)
	}
	stored, _ := m.AnnualExpenseSummaries(ctx, family, 2024)
	if len(stored) != 3 {
		t.Errorf("stored %d rows, want 3", len(stored))
	}
}

func TestAnalyzer_AnnualExpenses(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	if _, err := a.RecomputeAnnualExpenseSummary(ctx, family, 2024); err != nil {
		t.Fatal(err)
	}
	got, err := a.AnnualExpenses(ctx, family, 2024, "EUR")
	if err != nil {
		t.Fatalf("AnnualExpenses() error = %v", err)
	}
	if len(got) != 3 || got[2].MajorName != Total {
		t.Fatalf("AnnualExpenses() = %v, want the total last", got)
	}
	checkMoney(t, "Total", got[2].Actual, eur(6550))
}

func TestAnalyzer_AnnualExpenseTrend(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	for _, year := range []int{2023, 2024} {
		if _, err := a.RecomputeAnnualExpenseSummary(ctx, family, year); err != nil {
			t.Fatalf("RecomputeAnnualExpenseSummary(%d) error = %v", year, err)
		}
	}

	t.Run("USD", func(t *testing.T) {
		got, err := a.AnnualExpenseTrend(ctx, family, 0, USD)
		if err != nil {
			t.Fatalf("AnnualExpenseTrend() error = %v", err)
		}
		if len(got) != 2 || got[0].Year != 2023 {
			t.Fatalf("AnnualExpenseTrend() = %v, want 2023 and 2024", got)
		}
		if got[0].ActualChange != nil {
			t.Errorf("first year has a change")
		}
		checkDecimal(t, "ActualChange", *got[1].ActualChange, "7660")
		if !got[1].ActualChangePct.Equal(3830) {
			t.Errorf("ActualChangePct = %v, want 3830", *got[1].ActualChangePct)
		}
	})

	t.Run("EUR", func(t *testing.T) {
		got, err := a.AnnualExpenseTrend(ctx, family, 0, "EUR")
		if err != nil {
			t.Fatalf("AnnualExpenseTrend() error = %v", err)
		}
		checkMoney(t, "2023", got[0].Actual, eur(190.48))
		checkMoney(t, "2024", got[1].Actual, eur(6550))
		if !got[1].ActualChangePct.Equal(3338.68) {
			t.Errorf("ActualChangePct = %v, want 3338.68", *got[1].ActualChangePct)
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := a.AnnualExpenseTrend(ctx, family, 1, USD)
		if err != nil {
			t.Fatalf("AnnualExpenseTrend() error = %v", err)
		}
		if len(got) != 1 || got[0].Year != 2024 || got[0].ActualChange != nil {
			t.Errorf("AnnualExpenseTrend(limit 1) = %v, want 2024 alone", got)
		}
	})

	t.Run("previous zero", func(t *testing.T) {
		b, m := newTestAnalyzer(t)
		m.ReplaceAnnualExpenseSummaries(ctx, family, 2022, []AnnualExpenseSummary{{FamilyID: family, Year: 2022}})
		m.ReplaceAnnualExpenseSummaries(ctx, family, 2023, []AnnualExpenseSummary{{FamilyID: family, Year: 2023, Base: dec("10"), Actual: dec("10")}})
		got, err := b.AnnualExpenseTrend(ctx, family, 0, USD)
		if err != nil {
			t.Fatalf("AnnualExpenseTrend() error = %v", err)
		}
		if got[1].ActualChange != nil || got[1].ActualChangePct != nil {
			t.Errorf("change from zero = %v, %v, want undefined", got[1].ActualChange, got[1].ActualChangePct)
		}
	})
}
