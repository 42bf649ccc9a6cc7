package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fairshare/internal/domain/tree"
)

const twoLeaves = `{"root": {"length": 0, "children": [{"length": 2, "name": "A"}, {"length": 4, "name": "B"}]}}`

// execute runs the root command with args and returns stdout and the error.
func execute(stdin string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := New(strings.NewReader(stdin), &out, &errOut).RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRankCommand(t *testing.T) {
	Convey("Given the rank command", t, func() {
		Convey("When reading a tree from stdin", func() {
			out, err := execute(twoLeaves, "rank")

			Convey("Then it should print a ranked table", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "RANK  NAME  SCORE\n1     B     4\n2     A     2\n")
			})
		})

		Convey("When asking for JSON with a limit", func() {
			out, err := execute(twoLeaves, "rank", "-", "--json", "--limit", "1")

			Convey("Then only the top leaf is printed with the total count", func() {
				So(err, ShouldBeNil)
				var got struct {
					Count   int `json:"count"`
					Results []struct {
						Rank  int     `json:"rank"`
						Name  string  `json:"name"`
						Score float64 `json:"score"`
					} `json:"results"`
				}
				So(json.Unmarshal([]byte(out), &got), ShouldBeNil)
				So(got.Count, ShouldEqual, 2)
				So(len(got.Results), ShouldEqual, 1)
				So(got.Results[0].Name, ShouldEqual, "B")
				So(got.Results[0].Score, ShouldEqual, 4)
			})
		})

		Convey("When reading a tree from a file", func() {
			path := filepath.Join(t.TempDir(), "tree.json")
			So(os.WriteFile(path, []byte(`{"root": {"length": 10, "children": [{"name": "A"}, {"name": "B"}]}}`), 0o600), ShouldBeNil)
			out, err := execute("", "rank", path)

			Convey("Then tied leaves share a rank and drain by name descending", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "RANK  NAME  SCORE\n1     B     5\n1     A     5\n")
			})
		})

		Convey("When the input is malformed", func() {
			_, err := execute(`{"root": 5}`, "rank")

			Convey("Then a parse error is returned", func() {
				So(errors.Is(err, tree.ErrParse), ShouldBeTrue)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := execute("", "rank", filepath.Join(t.TempDir(), "missing.json"))
			So(err, ShouldNotBeNil)
		})

		Convey("When the limit is negative", func() {
			_, err := execute(twoLeaves, "rank", "--limit=-1")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestGenerateCommand(t *testing.T) {
	Convey("Given the generate command", t, func() {
		Convey("When generating a small tree", func() {
			out, err := execute("", "generate", "--leaves", "5", "--seed", "3")

			Convey("Then the output should load with exactly that many leaves", func() {
				So(err, ShouldBeNil)
				root, err := tree.Load([]byte(out))
				So(err, ShouldBeNil)
				So(tree.Size(root), ShouldEqual, 5)
			})

			Convey("And the same seed should give the same document", func() {
				again, err := execute("", "generate", "--leaves", "5", "--seed", "3")
				So(err, ShouldBeNil)
				So(again, ShouldEqual, out)
			})

			Convey("And the generated tree should be rankable", func() {
				ranked, err := execute(out, "rank")
				So(err, ShouldBeNil)
				So(strings.Count(ranked, "\n"), ShouldEqual, 6)
			})
		})

		Convey("When the leaf count is invalid", func() {
			_, err := execute("", "generate", "--leaves", "0")
			So(err, ShouldNotBeNil)
		})
	})
}
