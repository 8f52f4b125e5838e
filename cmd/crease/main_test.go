package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	convey.Convey("Given the crease command", t, func() {
		convey.Convey("When asked for its version", func() {
			out, err := run("version")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "crease dev\n")
		})

		convey.Convey("When simulating the sample scenario", func() {
			out, err := run("simulate", "../../internal/scenario/testdata/two_overs.yaml")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Lions 24/1 (2.0 ov)")
			convey.So(out, convey.ShouldContainSubstring, "Tigers won by 9 wickets.")
			convey.So(out, convey.ShouldContainSubstring, "Tigers ratings")
		})

		convey.Convey("When simulating with deliveries undone", func() {
			out, err := run("simulate", "--undo", "2", "../../internal/scenario/testdata/two_overs.yaml")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Tigers 23/1 (1.3 ov)")
			convey.So(out, convey.ShouldNotContainSubstring, "won by")
		})

		convey.Convey("When the scenario file is missing", func() {
			_, err := run("simulate", "testdata/nope.yaml")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
