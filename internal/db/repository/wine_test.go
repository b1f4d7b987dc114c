package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "winebuddy/internal/db"
	"winebuddy/internal/domain"
	"winebuddy/internal/sqlbuild"
)

func ptr[T any](v T) *T { return &v }

// seedWine builds a fully stocked red Bordeaux; tests tweak fields from there.
func seedWine(name string, vintage int64) domain.Wine {
	return domain.Wine{
		WineName:          ptr(name),
		Vintage:           ptr(vintage),
		Producer:          ptr("Château Test"),
		Varietal:          ptr("Cabernet Sauvignon"),
		Color:             ptr("Red"),
		Country:           ptr("France"),
		Region:            ptr("Bordeaux"),
		Quantity:          6,
		TotalQuantity:     6,
		Value:             ptr(45.0),
		BeginConsume:      ptr(int64(2020)),
		EndConsume:        ptr(int64(2035)),
		ProfessionalScore: ptr(92.0),
	}
}

func setupRepo(t *testing.T) (*WineRepo, context.Context) {
	t.Helper()
	db := internaldb.OpenTestSQLite(t)
	return NewWineRepo(db), context.Background()
}

func mustQuery(t *testing.T, repo *WineRepo, f sqlbuild.Filters, key sqlbuild.SortKey, desc bool, limit *int64) []domain.Wine {
	t.Helper()
	query, args, err := sqlbuild.Build(f, key, desc, limit, 2026)
	require.NoError(t, err)
	wines, err := repo.Query(context.Background(), query, args)
	require.NoError(t, err)
	return wines
}

func names(wines []domain.Wine) []string {
	out := make([]string, 0, len(wines))
	for _, w := range wines {
		if w.WineName != nil {
			out = append(out, *w.WineName)
		} else {
			out = append(out, "")
		}
	}
	return out
}

func TestBulkInsert_AllOrNothing(t *testing.T) {
	repo, ctx := setupRepo(t)

	loaded, err := repo.BulkInsert(ctx, []domain.Wine{
		seedWine("First", 2018),
		seedWine("Second", 2019),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestQuery_VintageRangeBoundsAreInclusive(t *testing.T) {
	repo, ctx := setupRepo(t)

	var wines []domain.Wine
	for _, y := range []int64{2009, 2010, 2012, 2015, 2016} {
		wines = append(wines, seedWine("Y", y))
	}
	_, err := repo.BulkInsert(ctx, wines)
	require.NoError(t, err)

	got := mustQuery(t, repo, sqlbuild.Filters{
		VintageMin: ptr(int64(2010)),
		VintageMax: ptr(int64(2015)),
	}, sqlbuild.SortVintage, false, nil)

	require.Len(t, got, 3)
	assert.Equal(t, int64(2010), *got[0].Vintage)
	assert.Equal(t, int64(2012), *got[1].Vintage)
	assert.Equal(t, int64(2015), *got[2].Vintage)
}

func TestQuery_ReadyExcludesUnknownBounds(t *testing.T) {
	repo, ctx := setupRepo(t)

	ready := seedWine("Drink now", 2018)
	tooYoung := seedWine("Too young", 2023)
	tooYoung.BeginConsume = ptr(int64(2030))
	tooYoung.EndConsume = ptr(int64(2045))
	unknown := seedWine("Unknown window", 2015)
	unknown.BeginConsume = ptr(int64(domain.UnknownBoundSentinel))
	unknown.EndConsume = ptr(int64(domain.UnknownBoundSentinel))
	noWindow := seedWine("No window", 2015)
	noWindow.BeginConsume = nil
	noWindow.EndConsume = nil

	_, err := repo.BulkInsert(ctx, []domain.Wine{ready, tooYoung, unknown, noWindow})
	require.NoError(t, err)

	got := mustQuery(t, repo, sqlbuild.Filters{Ready: true}, sqlbuild.SortVintage, false, nil)
	assert.Equal(t, []string{"Drink now"}, names(got))
}

func TestQuery_InStock(t *testing.T) {
	repo, ctx := setupRepo(t)

	held := seedWine("Held", 2019)
	drunk := seedWine("Drunk up", 2017)
	drunk.Quantity = 0

	_, err := repo.BulkInsert(ctx, []domain.Wine{held, drunk})
	require.NoError(t, err)

	got := mustQuery(t, repo, sqlbuild.Filters{InStock: true}, sqlbuild.SortVintage, false, nil)
	assert.Equal(t, []string{"Held"}, names(got))
}

func TestQuery_SubstringFiltersIgnoreCase(t *testing.T) {
	repo, ctx := setupRepo(t)

	match := seedWine("Match", 2019)
	match.Producer = ptr("Domaine de la Romanée-Conti")
	other := seedWine("Other", 2019)
	other.Producer = ptr("Penfolds")

	_, err := repo.BulkInsert(ctx, []domain.Wine{match, other})
	require.NoError(t, err)

	got := mustQuery(t, repo, sqlbuild.Filters{Producer: ptr("ROMAN")}, sqlbuild.SortVintage, false, nil)
	assert.Equal(t, []string{"Match"}, names(got))
}

func TestQuery_CombinedFiltersAndSort(t *testing.T) {
	repo, ctx := setupRepo(t)

	nv := seedWine("Non-vintage fizz", 0)
	nv.Vintage = nil
	nv.Color = ptr("Sparkling")
	young := seedWine("Young red", 2022)
	old := seedWine("Old red", 2005)
	white := seedWine("White", 2022)
	white.Color = ptr("White")
	empty := seedWine("Empty red", 2010)
	empty.Quantity = 0

	_, err := repo.BulkInsert(ctx, []domain.Wine{nv, young, old, white, empty})
	require.NoError(t, err)

	got := mustQuery(t, repo, sqlbuild.Filters{
		Color:   ptr("Red"),
		InStock: true,
	}, sqlbuild.SortVintage, false, nil)
	assert.Equal(t, []string{"Old red", "Young red"}, names(got))
}

func TestQuery_NullVintageSortsFirstAscending(t *testing.T) {
	repo, ctx := setupRepo(t)

	nv := seedWine("NV", 0)
	nv.Vintage = nil
	dated := seedWine("Dated", 1990)

	_, err := repo.BulkInsert(ctx, []domain.Wine{dated, nv})
	require.NoError(t, err)

	got := mustQuery(t, repo, sqlbuild.Filters{}, sqlbuild.SortVintage, false, nil)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].Vintage)
	assert.Equal(t, "Dated", *got[1].WineName)
}

func TestQuery_LimitCapsRows(t *testing.T) {
	repo, ctx := setupRepo(t)

	var wines []domain.Wine
	for _, y := range []int64{2001, 2002, 2003, 2004} {
		wines = append(wines, seedWine("W", y))
	}
	_, err := repo.BulkInsert(ctx, wines)
	require.NoError(t, err)

	got := mustQuery(t, repo, sqlbuild.Filters{}, sqlbuild.SortVintage, true, ptr(int64(2)))
	require.Len(t, got, 2)
	assert.Equal(t, int64(2004), *got[0].Vintage)
	assert.Equal(t, int64(2003), *got[1].Vintage)
}

func TestDistinct_SortedWithoutNullsOrDuplicates(t *testing.T) {
	repo, ctx := setupRepo(t)

	a := seedWine("A", 2019)
	a.Country = ptr("Italy")
	b := seedWine("B", 2020)
	b.Country = ptr("France")
	c := seedWine("C", 2021)
	c.Country = ptr("France")
	d := seedWine("D", 2022)
	d.Country = nil

	_, err := repo.BulkInsert(ctx, []domain.Wine{a, b, c, d})
	require.NoError(t, err)

	values, err := repo.Distinct(ctx, sqlbuild.DiscoverCountry)
	require.NoError(t, err)
	assert.Equal(t, []string{"France", "Italy"}, values)
}

func TestDistinct_VintagesSortNumerically(t *testing.T) {
	repo, ctx := setupRepo(t)

	var wines []domain.Wine
	for _, y := range []int64{2019, 999, 2001} {
		wines = append(wines, seedWine("W", y))
	}
	_, err := repo.BulkInsert(ctx, wines)
	require.NoError(t, err)

	values, err := repo.Distinct(ctx, sqlbuild.DiscoverVintage)
	require.NoError(t, err)
	assert.Equal(t, []string{"999", "2001", "2019"}, values)
}

func TestCount_EmptyTable(t *testing.T) {
	repo, ctx := setupRepo(t)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
