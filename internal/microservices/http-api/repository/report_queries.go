package repository

import (
	"fmt"
	"time"

	"libraryhub/internal/microservices/http-api/models"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

const dialectPostgres = "postgres"

var dialect = goqu.Dialect(dialectPostgres)

func toSQL(name string, ds *goqu.SelectDataset) (string, error) {
	query, _, err := ds.ToSQL()
	if err != nil {
		return "", fmt.Errorf("build %s query: %w", name, err)
	}
	return query, nil
}

func availableCopiesByOfficeQuery() (string, error) {
	ds := dialect.
		From(goqu.T("book_copies").As("c")).
		Join(goqu.T("offices").As("o"), goqu.On(goqu.I("o.id").Eq(goqu.I("c.office_id")))).
		Select(
			goqu.I("o.id").As("office_id"),
			goqu.I("o.name").As("office_name"),
			goqu.COUNT(goqu.Star()).As("available_copies"),
		).
		Where(goqu.I("c.status").Eq(string(models.CopyAvailable))).
		GroupBy(goqu.I("o.id"), goqu.I("o.name")).
		Order(goqu.C("available_copies").Desc(), goqu.I("o.name").Asc())
	return toSQL("available copies by office", ds)
}

// rankedAvailabilityByOfficeQuery keeps offices without available copies (count 0).
// Equal counts share a rank; rows within a rank are ordered by office name.
func rankedAvailabilityByOfficeQuery() (string, error) {
	available := goqu.L(`COUNT(*) FILTER (WHERE "c"."status" = ?)`, string(models.CopyAvailable))
	ds := dialect.
		From(goqu.T("offices").As("o")).
		LeftJoin(goqu.T("book_copies").As("c"), goqu.On(goqu.I("c.office_id").Eq(goqu.I("o.id")))).
		Select(
			goqu.I("o.id").As("office_id"),
			goqu.I("o.name").As("office_name"),
			available.As("available_copies"),
			goqu.RANK().Over(goqu.W().OrderBy(available.Desc())).As("rank_by_available"),
		).
		GroupBy(goqu.I("o.id"), goqu.I("o.name")).
		Order(goqu.C("rank_by_available").Asc(), goqu.I("o.name").Asc())
	return toSQL("ranked availability by office", ds)
}

// loansInPeriodByOfficeQuery counts loans started in [start, end)
func loansInPeriodByOfficeQuery(start, end time.Time) (string, error) {
	ds := dialect.
		From(goqu.T("loans").As("l")).
		Join(goqu.T("book_copies").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("l.book_copy_id")))).
		Join(goqu.T("offices").As("o"), goqu.On(goqu.I("o.id").Eq(goqu.I("c.office_id")))).
		Select(
			goqu.I("o.id").As("office_id"),
			goqu.I("o.name").As("office_name"),
			goqu.COUNT(goqu.Star()).As("loans_count"),
		).
		Where(
			goqu.I("l.starts_at").Gte(start.UTC()),
			goqu.I("l.starts_at").Lt(end.UTC()),
		).
		GroupBy(goqu.I("o.id"), goqu.I("o.name")).
		Order(goqu.C("loans_count").Desc(), goqu.I("o.name").Asc())
	return toSQL("loans in period by office", ds)
}

// overdueLoansByOfficeQuery counts loans without a return whose end is before now
func overdueLoansByOfficeQuery(now time.Time) (string, error) {
	ds := dialect.
		From(goqu.T("loans").As("l")).
		LeftJoin(goqu.T("returns").As("r"), goqu.On(goqu.I("r.loan_id").Eq(goqu.I("l.id")))).
		Join(goqu.T("book_copies").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("l.book_copy_id")))).
		Join(goqu.T("offices").As("o"), goqu.On(goqu.I("o.id").Eq(goqu.I("c.office_id")))).
		Select(
			goqu.I("o.id").As("office_id"),
			goqu.I("o.name").As("office_name"),
			goqu.COUNT(goqu.Star()).As("loans_count"),
		).
		Where(
			goqu.I("r.loan_id").IsNull(),
			goqu.I("l.ends_at").Lt(now.UTC()),
		).
		GroupBy(goqu.I("o.id"), goqu.I("o.name")).
		Order(goqu.C("loans_count").Desc(), goqu.I("o.name").Asc())
	return toSQL("overdue loans by office", ds)
}

func clientsByActiveLoansQuery() (string, error) {
	active := goqu.L(`COUNT(*) FILTER (WHERE "r"."loan_id" IS NULL)`)
	ds := dialect.
		From(goqu.T("loans").As("l")).
		LeftJoin(goqu.T("returns").As("r"), goqu.On(goqu.I("r.loan_id").Eq(goqu.I("l.id")))).
		Select(
			goqu.I("l.client_id").As("client_id"),
			active.As("active_loans"),
			goqu.RANK().Over(goqu.W().OrderBy(active.Desc())).As("rank_by_active"),
		).
		GroupBy(goqu.I("l.client_id")).
		Order(goqu.C("rank_by_active").Asc(), goqu.I("l.client_id").Asc())
	return toSQL("clients by active loans", ds)
}

// booksByLoanCountQuery starts from book_link so books never loaned rank last with 0
func booksByLoanCountQuery() (string, error) {
	loans := goqu.COUNT(goqu.I("l.id"))
	ds := dialect.
		From(goqu.T("book_link").As("bl")).
		LeftJoin(goqu.T("book_copies").As("c"), goqu.On(goqu.I("c.book_link_id").Eq(goqu.I("bl.id")))).
		LeftJoin(goqu.T("loans").As("l"), goqu.On(goqu.I("l.book_copy_id").Eq(goqu.I("c.id")))).
		Select(
			goqu.I("bl.id").As("book_id"),
			loans.As("loans_count"),
			goqu.RANK().Over(goqu.W().OrderBy(loans.Desc())).As("rank_by_popularity"),
		).
		GroupBy(goqu.I("bl.id")).
		Order(goqu.C("rank_by_popularity").Asc(), goqu.I("bl.id").Asc())
	return toSQL("books by loan count", ds)
}
