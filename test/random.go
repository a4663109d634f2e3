package test

import (
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
)

var (
	Faker  = faker.NewWithSeed(Source)
	Rand   = rand.New(Source)
	Source = rand.NewSource(ginkgo.GinkgoRandomSeed())
)

// RandomPhone returns a ten digit mobile number
func RandomPhone() string {
	return Faker.Numerify("9#########")
}

func RandomOTP() string {
	return Faker.Numerify("######")
}
