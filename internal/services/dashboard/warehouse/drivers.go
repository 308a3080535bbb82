package warehouse

import (
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/microsoft/go-mssqldb/azuread"
	_ "modernc.org/sqlite"
)

// azureDriverName is registered by azuread and speaks the Active Directory
// fedauth flows on top of the sqlserver driver.
const azureDriverName = azuread.DriverName
