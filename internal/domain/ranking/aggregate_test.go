package ranking_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/fairshare/internal/domain/ranking"
	"github.com/okian/fairshare/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewScore(t *testing.T) {
	Convey("Given raw float values", t, func() {
		Convey("When the value is NaN", func() {
			_, err := ranking.NewScore(math.NaN())

			Convey("Then construction should fail", func() {
				So(errors.Is(err, ranking.ErrNaN), ShouldBeTrue)
			})
		})

		Convey("When the value is infinite", func() {
			s, err := ranking.NewScore(math.Inf(1))

			Convey("Then it should be accepted and order above everything", func() {
				So(err, ShouldBeNil)
				So(s.Compare(ranking.MustScore(math.MaxFloat64)), ShouldEqual, 1)
			})
		})

		Convey("When MustScore receives NaN", func() {
			Convey("Then it should panic", func() {
				So(func() { ranking.MustScore(math.NaN()) }, ShouldPanic)
			})
		})
	})

	Convey("Given scores marshalled to JSON", t, func() {
		b, err := json.Marshal([]ranking.Score{
			ranking.MustScore(2.5),
			ranking.MustScore(math.Inf(1)),
			ranking.MustScore(math.Inf(-1)),
		})

		Convey("Then infinities should be spelled out", func() {
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `[2.5,"Infinity","-Infinity"]`)
		})
	})
}

func TestCollect(t *testing.T) {
	Convey("Given valid raw results", t, func() {
		results := []scoring.Result{{Name: "A", Score: 2}, {Name: "B", Score: 4}}

		set, err := ranking.CollectSlice(results)

		Convey("Then they should drain highest first", func() {
			So(err, ShouldBeNil)
			So(set.Len(), ShouldEqual, 2)
			drained := set.Drain()
			So(drained[0].Name, ShouldEqual, "B")
			So(drained[0].Score.Float(), ShouldEqual, 4.0)
			So(drained[0].Rank, ShouldEqual, 1)
			So(drained[1].Name, ShouldEqual, "A")
			So(drained[1].Rank, ShouldEqual, 2)
		})
	})

	Convey("Given a NaN among the raw results", t, func() {
		results := []scoring.Result{{Name: "A", Score: 1}, {Name: "bad", Score: math.NaN()}, {Name: "C", Score: 3}}

		set, err := ranking.CollectSlice(results)

		Convey("Then the whole collection should fail with a DomainError", func() {
			So(set, ShouldBeNil)
			So(errors.Is(err, ranking.ErrDomain), ShouldBeTrue)
			So(errors.Is(err, ranking.ErrNaN), ShouldBeTrue)

			var derr *ranking.DomainError
			So(errors.As(err, &derr), ShouldBeTrue)
			So(derr.Name, ShouldEqual, "bad")
			So(derr.Error(), ShouldContainSubstring, `"bad"`)
		})
	})

	Convey("Given no results", t, func() {
		set, err := ranking.CollectSlice(nil)

		Convey("Then the set should be empty", func() {
			So(err, ShouldBeNil)
			So(set.Len(), ShouldEqual, 0)
			So(set.Drain(), ShouldBeEmpty)
		})
	})

	Convey("Given duplicate names with equal scores", t, func() {
		set, err := ranking.CollectSlice([]scoring.Result{{Name: "A", Score: 1}, {Name: "A", Score: 1}})

		Convey("Then both should be kept", func() {
			So(err, ShouldBeNil)
			So(set.Len(), ShouldEqual, 2)
		})
	})
}
