package test

import (
	"github.com/giberode/gib/session"
	"github.com/giberode/gib/test"
)

func RandomSession() session.Session {
	return session.Session{
		Phone:        test.RandomPhone(),
		Name:         test.Faker.Person().Name(),
		Role:         test.Faker.RandomStringElement([]string{"Executive", "Doctor", "Non-Executive"}),
		ProfileImage: test.Faker.Internet().URL(),
		DeviceID:     test.Faker.UUID().V4(),
		AppVersion:   "1.0.0",
	}
}
