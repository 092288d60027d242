package migrate

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
)

const (
	boxSaleMigrationSource = "modules/boxsale/database/postgresql/migrations"
	boxSaleMigrationTable  = "boxsale_schema_migrations"
)

var supportedDrivers = map[string]struct{}{
	"postgres":   {},
	"postgresql": {},
}

type options struct {
	DatabaseURL string
	Source      string
	Verbose     bool
}

func (o *options) bind(flags *pflag.FlagSet, direction string) {
	flags.StringVar(&o.DatabaseURL, "database", "", "Database url to run migration on")
	flags.StringVar(&o.Source, "source", boxSaleMigrationSource, fmt.Sprintf("Path to box sale %s migrations directory", direction))
	flags.BoolVar(&o.Verbose, "verbose", false, "Print verbose migration logs")
}

// stepsArg parses the optional [N] argument, 0 means all.
func stepsArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse N")
	}
	if n < 0 {
		return 0, errors.Wrap(errs.InvalidArgument, "N must be a positive integer")
	}
	return n, nil
}

func newMigrate(opts *options) (*migrate.Migrate, error) {
	if opts.DatabaseURL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "--database is required")
	}
	databaseURL, err := url.Parse(opts.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database URL")
	}
	if _, ok := supportedDrivers[databaseURL.Scheme]; !ok {
		return nil, errors.Wrapf(errs.InvalidArgument, "unsupported database driver: %s", databaseURL.Scheme)
	}

	databaseURL = cloneURLWithQuery(databaseURL, url.Values{"x-migrations-table": {boxSaleMigrationTable}})
	m, err := migrate.New("file://"+opts.Source, databaseURL.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Migrate instance")
	}
	m.Log = &consoleLogger{
		prefix:  "[boxsale] ",
		verbose: opts.Verbose,
	}
	return m, nil
}

func cloneURLWithQuery(u *url.URL, newQuery url.Values) *url.URL {
	clone := *u
	query := clone.Query()
	for key, values := range newQuery {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	clone.RawQuery = query.Encode()
	return &clone
}
