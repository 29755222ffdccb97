package postgresql

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"github.com/sahmwel/sahmticket-sub000/config"
)

var (
	db   *sql.DB
	once sync.Once
)

func GetDatabase() *sql.DB {
	once.Do(func() {
		c := config.Get()

		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.PostgreSQL.Host, c.PostgreSQL.Port, c.PostgreSQL.User,
			c.PostgreSQL.Password, c.PostgreSQL.Name, c.PostgreSQL.SSLMode,
		)

		conn, err := sql.Open("postgres", dsn)
		if err != nil {
			panic(err)
		}

		conn.SetMaxOpenConns(c.PostgreSQL.MaxOpenConns)
		conn.SetMaxIdleConns(c.PostgreSQL.MaxIdleConns)
		conn.SetConnMaxLifetime(time.Duration(c.PostgreSQL.ConnMaxLifetime) * time.Second)

		db = conn
	})

	return db
}
