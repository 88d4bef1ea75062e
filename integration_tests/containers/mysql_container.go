package containers

import (
	"context"
	"fmt"
	"log"

	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

// SetupMySQLContainer starts a MySQL testcontainer standing in for the game server database and
// returns the container and a go-sql-driver DSN.
func SetupMySQLContainer(ctx context.Context) (*mysql.MySQLContainer, string, error) {
	log.Println("Starting MySQL container...")

	myContainer, err := mysql.Run(ctx,
		"mysql:8.0",
		mysql.WithDatabase("qbcore"),
		mysql.WithUsername("portal"),
		mysql.WithPassword("portal"),
	)
	if err != nil {
		if myContainer != nil {
			myContainer.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("failed to start mysql container: %w", err)
	}

	dsn, err := myContainer.ConnectionString(ctx)
	if err != nil {
		myContainer.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get mysql connection string: %w", err)
	}

	log.Println("MySQL container started and ready.")
	return myContainer, dsn, nil
}
