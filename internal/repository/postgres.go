package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/1997daniela/employeeVaccineInventory/internal/config"
	"github.com/1997daniela/employeeVaccineInventory/internal/models"
)

//go:embed schema.sql
var schemaDDL string

// NewPool opens a pgx pool from the database section of the configuration
// and pings it once.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "employee-vaccine-inventory"
	poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.Database.QueryTimeout.Milliseconds())
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables when they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Users() UserRepository                       { return pgUsers{s.pool} }
func (s *PostgresStore) ApplicationUsers() ApplicationUserRepository { return pgProfiles{s.pool} }
func (s *PostgresStore) Vaccines() VaccineRepository                 { return pgVaccines{s.pool} }
func (s *PostgresStore) Ping(ctx context.Context) error              { return s.pool.Ping(ctx) }
func (s *PostgresStore) Close()                                      { s.pool.Close() }

// translate maps driver errors onto the package sentinels.
func translate(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, ErrConflict)
		case "23503":
			return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, ErrInvalidReference)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

func orderBy(orders []SortOrder, columns map[string]string, fallback string) string {
	terms := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		col, ok := columns[o.Field]
		if !ok {
			continue
		}
		dir := "asc"
		if o.Desc {
			dir = "desc"
		}
		terms = append(terms, col+" "+dir)
	}
	terms = append(terms, fallback+" asc")
	return " order by " + strings.Join(terms, ", ")
}

func limitOffset(opts ListOptions) string {
	if opts.Size <= 0 {
		return ""
	}
	return fmt.Sprintf(" limit %d offset %d", opts.Size, offset(opts))
}

func dateArg(d *models.LocalDate) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func toDate(t *time.Time) *models.LocalDate {
	if t == nil {
		return nil
	}
	d := models.NewLocalDate(t.Year(), t.Month(), t.Day())
	return &d
}

// ---------- users ----------

type pgUsers struct{ pool *pgxpool.Pool }

const userColumns = `id, login, first_name, last_name, email, password_hash, activated, lang_key, authorities, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Login,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.Activated,
		&u.LangKey,
		&u.Authorities,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r pgUsers) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `select `+userColumns+` from jhi_user order by id`)
	if err != nil {
		return nil, translate(err, "list users")
	}
	defer rows.Close()
	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate(err, "scan user")
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r pgUsers) Get(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `select `+userColumns+` from jhi_user where id = $1`, id))
	if err != nil {
		return models.User{}, translate(err, fmt.Sprintf("user %d", id))
	}
	return u, nil
}

func (r pgUsers) FindByLogin(ctx context.Context, login string) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `select `+userColumns+` from jhi_user where login = $1`, login))
	if err != nil {
		return models.User{}, translate(err, fmt.Sprintf("user %q", login))
	}
	return u, nil
}

func (r pgUsers) Create(ctx context.Context, u models.User) (models.User, error) {
	if len(u.Authorities) == 0 {
		u.Authorities = []string{"ROLE_USER"}
	}
	if u.LangKey == "" {
		u.LangKey = "en"
	}
	const q = `
insert into jhi_user(login, first_name, last_name, email, password_hash, activated, lang_key, authorities)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning ` + userColumns
	created, err := scanUser(r.pool.QueryRow(ctx, q,
		u.Login, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Activated, u.LangKey, u.Authorities,
	))
	if err != nil {
		return models.User{}, translate(err, fmt.Sprintf("create user %q", u.Login))
	}
	return created, nil
}

func (r pgUsers) SaveAccount(ctx context.Context, u models.User, profile models.ApplicationUser) (models.ApplicationUser, error) {
	var id int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `
update jhi_user
set first_name = $2, last_name = $3, email = $4, lang_key = coalesce(nullif($5, ''), lang_key), updated_at = now()
where id = $1`, u.ID, u.FirstName, u.LastName, u.Email, u.LangKey)
		if err != nil {
			return translate(err, fmt.Sprintf("update user %d", u.ID))
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("user %d: %w", u.ID, ErrNotFound)
		}

		err = tx.QueryRow(ctx, `select id from application_user where internal_user_id = $1 for update`, u.ID).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			err = tx.QueryRow(ctx, `
insert into application_user(identification, birthday, address, cellphone, internal_user_id)
values ($1, $2, nullif($3, ''), nullif($4, ''), $5)
returning id`,
				profile.Identification, dateArg(profile.Birthday), profile.Address, profile.Cellphone, u.ID,
			).Scan(&id)
			if err != nil {
				return translate(err, "create application user")
			}
		case err != nil:
			return translate(err, fmt.Sprintf("application user for user %d", u.ID))
		default:
			_, err = tx.Exec(ctx, `
update application_user
set identification = $2, birthday = $3, address = nullif($4, ''), cellphone = nullif($5, '')
where id = $1`,
				id, profile.Identification, dateArg(profile.Birthday), profile.Address, profile.Cellphone,
			)
			if err != nil {
				return translate(err, fmt.Sprintf("update application user %d", id))
			}
		}
		return nil
	})
	if err != nil {
		return models.ApplicationUser{}, err
	}
	return pgProfiles{r.pool}.FindByID(ctx, id)
}

func (r pgUsers) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `select count(*) from jhi_user`).Scan(&n); err != nil {
		return 0, translate(err, "count users")
	}
	return n, nil
}

// ---------- application users ----------

type pgProfiles struct{ pool *pgxpool.Pool }

const profileSelect = `
select au.id, au.identification, au.birthday, au.address, au.cellphone, u.id, u.login
from application_user au
join jhi_user u on u.id = au.internal_user_id`

func scanProfile(row pgx.Row) (models.ApplicationUser, error) {
	var (
		au       models.ApplicationUser
		id       int64
		birthday *time.Time
		ref      models.UserRef
	)
	if err := row.Scan(&id, &au.Identification, &birthday, &au.Address, &au.Cellphone, &ref.ID, &ref.Login); err != nil {
		return models.ApplicationUser{}, err
	}
	au.ID = &id
	au.Birthday = toDate(birthday)
	au.InternalUser = &ref
	return au, nil
}

func (r pgProfiles) List(ctx context.Context, opts ListOptions) ([]models.ApplicationUser, error) {
	q := profileSelect + orderBy(opts.Sort, ApplicationUserSortColumns, "au.id") + limitOffset(opts)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, translate(err, "list application users")
	}
	defer rows.Close()
	out := []models.ApplicationUser{}
	for rows.Next() {
		au, err := scanProfile(rows)
		if err != nil {
			return nil, translate(err, "scan application user")
		}
		out = append(out, au)
	}
	return out, rows.Err()
}

func (r pgProfiles) Get(ctx context.Context, id int64) (models.ApplicationUser, error) {
	au, err := scanProfile(r.pool.QueryRow(ctx, profileSelect+` where au.id = $1`, id))
	if err != nil {
		return models.ApplicationUser{}, translate(err, fmt.Sprintf("application user %d", id))
	}

	rows, err := r.pool.Query(ctx, `
select id, vaccine_type, vaccination_date, doses
from vaccine
where application_user_id = $1
order by id`, id)
	if err != nil {
		return models.ApplicationUser{}, translate(err, "list owned vaccines")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			vid   int64
			vtype string
			date  time.Time
			doses int
		)
		if err := rows.Scan(&vid, &vtype, &date, &doses); err != nil {
			return models.ApplicationUser{}, translate(err, "scan owned vaccine")
		}
		au.Vaccines = append(au.Vaccines, models.Vaccine{
			ID:              &vid,
			VaccineType:     models.VaccineType(vtype),
			VaccinationDate: toDate(&date),
			Doses:           &doses,
		})
	}
	return au, rows.Err()
}

func (r pgProfiles) FindByLogin(ctx context.Context, login string) (models.ApplicationUser, error) {
	au, err := scanProfile(r.pool.QueryRow(ctx, profileSelect+` where u.login = $1`, login))
	if err != nil {
		return models.ApplicationUser{}, translate(err, fmt.Sprintf("application user for %q", login))
	}
	return au, nil
}

func (r pgProfiles) Create(ctx context.Context, u models.ApplicationUser) (models.ApplicationUser, error) {
	if u.InternalUser == nil {
		return models.ApplicationUser{}, fmt.Errorf("internal user: %w", ErrInvalidReference)
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
insert into application_user(identification, birthday, address, cellphone, internal_user_id)
values ($1, $2, nullif($3, ''), nullif($4, ''), $5)
returning id`,
		u.Identification, dateArg(u.Birthday), u.Address, u.Cellphone, u.InternalUser.ID,
	).Scan(&id)
	if err != nil {
		return models.ApplicationUser{}, translate(err, "create application user")
	}
	return r.FindByID(ctx, id)
}

// FindByID reads one user without its vaccines.
func (r pgProfiles) FindByID(ctx context.Context, id int64) (models.ApplicationUser, error) {
	au, err := scanProfile(r.pool.QueryRow(ctx, profileSelect+` where au.id = $1`, id))
	if err != nil {
		return models.ApplicationUser{}, translate(err, fmt.Sprintf("application user %d", id))
	}
	return au, nil
}

func (r pgProfiles) Update(ctx context.Context, u models.ApplicationUser) (models.ApplicationUser, error) {
	if u.InternalUser == nil {
		return models.ApplicationUser{}, fmt.Errorf("internal user: %w", ErrInvalidReference)
	}
	ct, err := r.pool.Exec(ctx, `
update application_user
set identification = $2, birthday = $3, address = nullif($4, ''), cellphone = nullif($5, ''), internal_user_id = $6
where id = $1`,
		*u.ID, u.Identification, dateArg(u.Birthday), u.Address, u.Cellphone, u.InternalUser.ID,
	)
	if err != nil {
		return models.ApplicationUser{}, translate(err, fmt.Sprintf("update application user %d", *u.ID))
	}
	if ct.RowsAffected() == 0 {
		return models.ApplicationUser{}, fmt.Errorf("application user %d: %w", *u.ID, ErrNotFound)
	}
	return r.FindByID(ctx, *u.ID)
}

func (r pgProfiles) Delete(ctx context.Context, id int64) (models.ApplicationUser, error) {
	prior, err := r.FindByID(ctx, id)
	if err != nil {
		return models.ApplicationUser{}, err
	}
	if _, err := r.pool.Exec(ctx, `delete from application_user where id = $1`, id); err != nil {
		err = translate(err, fmt.Sprintf("delete application user %d", id))
		if errors.Is(err, ErrInvalidReference) {
			return models.ApplicationUser{}, fmt.Errorf("application user %d still has vaccines: %w", id, ErrConflict)
		}
		return models.ApplicationUser{}, err
	}
	return prior, nil
}

// ---------- vaccines ----------

type pgVaccines struct{ pool *pgxpool.Pool }

const vaccineSelect = `
select v.id, v.vaccine_type, v.vaccination_date, v.doses,
       au.id, au.identification, au.birthday, au.address, au.cellphone
from vaccine v
join application_user au on au.id = v.application_user_id`

func scanVaccine(row pgx.Row) (models.Vaccine, error) {
	var (
		v        models.Vaccine
		id       int64
		vtype    string
		date     time.Time
		doses    int
		owner    models.ApplicationUser
		ownerID  int64
		birthday *time.Time
	)
	err := row.Scan(
		&id, &vtype, &date, &doses,
		&ownerID, &owner.Identification, &birthday, &owner.Address, &owner.Cellphone,
	)
	if err != nil {
		return models.Vaccine{}, err
	}
	owner.ID = &ownerID
	owner.Birthday = toDate(birthday)
	v.ID = &id
	v.VaccineType = models.VaccineType(vtype)
	v.VaccinationDate = toDate(&date)
	v.Doses = &doses
	v.ApplicationUser = &owner
	return v, nil
}

func (r pgVaccines) List(ctx context.Context, opts ListOptions) ([]models.Vaccine, error) {
	q := vaccineSelect + orderBy(opts.Sort, VaccineSortColumns, "v.id") + limitOffset(opts)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, translate(err, "list vaccines")
	}
	defer rows.Close()
	out := []models.Vaccine{}
	for rows.Next() {
		v, err := scanVaccine(rows)
		if err != nil {
			return nil, translate(err, "scan vaccine")
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r pgVaccines) Get(ctx context.Context, id int64) (models.Vaccine, error) {
	v, err := scanVaccine(r.pool.QueryRow(ctx, vaccineSelect+` where v.id = $1`, id))
	if err != nil {
		return models.Vaccine{}, translate(err, fmt.Sprintf("vaccine %d", id))
	}
	return v, nil
}

func (r pgVaccines) Create(ctx context.Context, v models.Vaccine) (models.Vaccine, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
insert into vaccine(vaccine_type, vaccination_date, doses, application_user_id)
values ($1, $2, $3, $4)
returning id`,
		string(v.VaccineType), dateArg(v.VaccinationDate), v.Doses, v.OwnerID(),
	).Scan(&id)
	if err != nil {
		return models.Vaccine{}, translate(err, "create vaccine")
	}
	return r.Get(ctx, id)
}

func (r pgVaccines) Update(ctx context.Context, v models.Vaccine) (models.Vaccine, error) {
	ct, err := r.pool.Exec(ctx, `
update vaccine
set vaccine_type = $2, vaccination_date = $3, doses = $4, application_user_id = $5
where id = $1`,
		*v.ID, string(v.VaccineType), dateArg(v.VaccinationDate), v.Doses, v.OwnerID(),
	)
	if err != nil {
		return models.Vaccine{}, translate(err, fmt.Sprintf("update vaccine %d", *v.ID))
	}
	if ct.RowsAffected() == 0 {
		return models.Vaccine{}, fmt.Errorf("vaccine %d: %w", *v.ID, ErrNotFound)
	}
	return r.Get(ctx, *v.ID)
}

func (r pgVaccines) Delete(ctx context.Context, id int64) (models.Vaccine, error) {
	var prior models.Vaccine
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		prior, err = scanVaccine(tx.QueryRow(ctx, vaccineSelect+` where v.id = $1 for update of v`, id))
		if err != nil {
			return translate(err, fmt.Sprintf("vaccine %d", id))
		}
		if _, err := tx.Exec(ctx, `delete from vaccine where id = $1`, id); err != nil {
			return translate(err, fmt.Sprintf("delete vaccine %d", id))
		}
		return nil
	})
	if err != nil {
		return models.Vaccine{}, err
	}
	return prior, nil
}
