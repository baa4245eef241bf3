package sqlsplit

import (
	"context"

	"github.com/bool64/ctxd"
	"github.com/jmoiron/sqlx"
)

type ctxKey struct{}

// TxToContext adds transaction to context.
func TxToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// TxFromContext gets transaction or nil from context.
func TxFromContext(ctx context.Context) *sqlx.Tx {
	tx, ok := ctx.Value(ctxKey{}).(*sqlx.Tx)
	if !ok {
		return nil
	}

	return tx
}

// NewRunner creates an instance of Runner.
func NewRunner(db *sqlx.DB) *Runner {
	return &Runner{
		db: db,
	}
}

// Runner executes multi-statement SQL scripts one statement at a time.
//
// The script is cut with SplitDetailed, arguments are distributed across
// statements by their positional placeholder counts.
type Runner struct {
	db *sqlx.DB

	// SplitOptions control how scripts are cut into statements.
	SplitOptions []func(*Options)

	// OnError is called when error is encountered, could be useful for logging.
	OnError func(ctx context.Context, err error)

	// Trace wraps a call to database.
	// It takes statement as arguments and returns
	// instrumented context with callback to call after db call is finished.
	Trace func(ctx context.Context, stmt string, args []interface{}) (newCtx context.Context, onFinish func(error))
}

// Run splits script into atomic statements and executes them in order.
//
// The total number of `?` placeholders in the script must match the number
// of args. If a transaction is present in context it is used, otherwise
// every statement is executed directly on the database.
func (r *Runner) Run(ctx context.Context, script string, args ...interface{}) error {
	stmts := SplitDetailed(script, r.SplitOptions...)

	total := 0
	for _, st := range stmts {
		total += st.Placeholders
	}

	if total != len(args) {
		return r.error(ctx, ctxd.NewError(ctx, "unexpected number of arguments",
			"placeholders", total,
			"args", len(args),
		))
	}

	var execer sqlx.ExecerContext
	if tx := TxFromContext(ctx); tx != nil {
		execer = tx
	} else {
		execer = r.db
	}

	for _, st := range stmts {
		stmtArgs := args[:st.Placeholders:st.Placeholders]
		args = args[st.Placeholders:]

		if err := r.exec(ctx, execer, st.Text, stmtArgs); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) exec(ctx context.Context, execer sqlx.ExecerContext, stmt string, args []interface{}) (err error) {
	if r.Trace != nil {
		ct, def := r.Trace(ctx, stmt, args)
		ctx = ct

		defer func() { def(err) }()
	}

	if _, err = execer.ExecContext(ctx, stmt, args...); err != nil {
		err = r.error(ctx, ctxd.WrapError(ctx, err, "failed to execute statement",
			"statement", stmt,
		))
	}

	return err
}

// InTx runs callback in a transaction.
//
// If transaction already exists in context, it will reuse that. Otherwise it
// starts a new transaction and commit or rollback (in case of error) at the end.
func (r *Runner) InTx(ctx context.Context, fn func(context.Context) error) (err error) {
	if tx := TxFromContext(ctx); tx != nil {
		// Parent transaction is still running and this is not the
		// beginner, so it can't be the finisher.
		return fn(ctx)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return r.error(ctx, ctxd.WrapError(ctx, err, "failed to begin tx"))
	}

	ctx = TxToContext(ctx, tx)

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = r.error(ctx, ctxd.WrapError(ctx, rbErr, "failed to rollback",
					"error", err,
				))
			}

			return
		}

		if cmErr := tx.Commit(); cmErr != nil {
			err = r.error(ctx, ctxd.WrapError(ctx, cmErr, "failed to commit"))
		}
	}()

	return fn(ctx)
}

func (r *Runner) error(ctx context.Context, err error) error {
	if err != nil && r.OnError != nil {
		r.OnError(ctx, err)
	}

	return err
}

// DB returns database instance.
func (r *Runner) DB() *sqlx.DB {
	return r.db
}
