package test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Test runs the ginkgo specs of the calling test package, named after it
func Test(t *testing.T) {
	RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, suiteName(callerFunc(2)))
}

// suiteName turns "github.com/giberode/gib/attendance_test.TestSuite" into "attendance"
func suiteName(fn string) string {
	fn = fn[strings.LastIndex(fn, "/")+1:]
	name, _, _ := strings.Cut(fn, ".")
	return strings.TrimSuffix(name, "_test")
}

func callerFunc(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return runtime.FuncForPC(pc).Name()
}
