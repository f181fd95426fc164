// встроенные SQL-миграции для golang-migrate
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
