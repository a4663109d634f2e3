package test

import (
	"fmt"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/giberode/gib/store"
	"github.com/giberode/gib/test"
)

var database *store.SQLiteDatabase

func SetupDatabase() {
	path := filepath.Join(ginkgo.GinkgoT().TempDir(), fmt.Sprintf("gib_test_%s_%d.db", test.Faker.Letter(), ginkgo.GinkgoParallelProcess()))
	cfg := &store.Config{Driver: store.DriverSQLite, Path: path}
	dsn, err := cfg.GetConnectionString()
	Expect(err).ToNot(HaveOccurred())

	client, err := store.NewClient(dsn)
	Expect(err).ToNot(HaveOccurred())

	database, err = store.NewSQLiteDatabase(client)
	Expect(err).ToNot(HaveOccurred())
}

func TeardownDatabase() {
	Expect(database).ToNot(BeNil())
	Expect(database.Close()).To(Succeed())
	database = nil
}

func GetTestDatabase() *store.SQLiteDatabase {
	Expect(database).ToNot(BeNil())
	return database
}
