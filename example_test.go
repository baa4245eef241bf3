package sqlsplit_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/bool64/sqlsplit"
)

func ExampleSplit() {
	script := `CREATE TABLE products (id INT, title TEXT);
BEGIN
  INSERT INTO products VALUES (1, 'Apples');
  INSERT INTO products VALUES (2, 'Oranges');
END;
`

	for _, s := range sqlsplit.Split(script) {
		fmt.Printf("%q\n", s)
	}

	// Output:
	// "CREATE TABLE products (id INT, title TEXT)"
	// "BEGIN\n  INSERT INTO products VALUES (1, 'Apples');\n  INSERT INTO products VALUES (2, 'Oranges');\nEND"
}

func ExampleSplitDetailed() {
	script := `INSERT INTO t VALUES (?, ?);
DELETE FROM t WHERE id = ?;`

	for _, st := range sqlsplit.SplitDetailed(script) {
		fmt.Println(st.Placeholders, st.Text)
	}

	// Output:
	// 2 INSERT INTO t VALUES (?, ?)
	// 1 DELETE FROM t WHERE id = ?
}

func ExampleRunner_Run() {
	var (
		r   sqlsplit.Runner
		ctx context.Context
	)

	insert, insertArgs, err := squirrel.Insert("products").
		Columns("id", "title").
		Values(1, "Apples").
		ToSql()
	if err != nil {
		log.Fatal(err)
	}

	update, updateArgs, err := squirrel.Update("products").
		Set("title", "Bananas").
		Where(squirrel.Eq{"id": 1}).
		ToSql()
	if err != nil {
		log.Fatal(err)
	}

	script := strings.Join([]string{insert, update}, ";\n")

	err = r.InTx(ctx, func(ctx context.Context) error {
		return r.Run(ctx, script, append(insertArgs, updateArgs...)...)
	})
	if err != nil {
		log.Fatal(err)
	}
}
