package inference_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/okian/skillmerge/internal/domain/inference"
	"github.com/okian/skillmerge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sheet(rows ...[]string) model.Sheet {
	return model.Sheet{Name: "Sheet1", Rows: rows}
}

func levelOf(l model.Level) int {
	n, _ := l.Int()
	return n
}

func TestEngine_NamedColumns(t *testing.T) {
	Convey("Given a sheet with explicit skill and level columns", t, func() {
		engine := inference.New()
		s := sheet(
			[]string{"Skill", "Level"},
			[]string{"Python", "3"},
			[]string{"SQL", "2"},
		)

		Convey("When parsing a cycle-1 file", func() {
			res := engine.Parse(s, "alice_cycle1.xlsx")

			Convey("Then every skill row should become a record", func() {
				So(res.Heuristic, ShouldEqual, inference.HeuristicNamedColumns)
				So(res.Records, ShouldHaveLength, 2)
				So(res.Records[0], ShouldResemble, model.SkillRecord{
					Employee: "Alice", Skill: "Python", Level: model.IntLevel(3), Cycle: model.Cycle1,
				})
				So(res.Records[1].Skill, ShouldEqual, "SQL")
				So(levelOf(res.Records[1].Level), ShouldEqual, 2)
			})
		})
	})

	Convey("Given synonym headers in mixed case and padding", t, func() {
		engine := inference.New()
		s := sheet(
			[]string{"  COMPETENCY NAME ", "Notes", "Proficiency"},
			[]string{"Go", "n/a", "4.0"},
			[]string{"", "skipped", "5"},
			[]string{"Rust", "", "2.9"},
		)

		Convey("When parsing", func() {
			res := engine.Parse(s, "bob.xlsx")

			Convey("Then empty skill cells are skipped and floats truncate", func() {
				So(res.Heuristic, ShouldEqual, inference.HeuristicNamedColumns)
				So(res.Records, ShouldHaveLength, 2)
				So(levelOf(res.Records[0].Level), ShouldEqual, 4)
				So(levelOf(res.Records[1].Level), ShouldEqual, 2)
				So(res.Records[0].Cycle, ShouldEqual, model.CycleUnknown)
			})
		})
	})

	Convey("Given a competency/rating sheet with a non-numeric rating", t, func() {
		engine := inference.New()
		s := sheet(
			[]string{"Competency", "Rating"},
			[]string{"Negotiation", "Advanced"},
			[]string{"Planning", ""},
		)

		Convey("When parsing", func() {
			res := engine.Parse(s, "carol.xlsx")

			Convey("Then the raw text is kept and blank ratings are unknown", func() {
				So(res.Records, ShouldHaveLength, 2)
				raw, ok := res.Records[0].Level.Raw()
				So(ok, ShouldBeTrue)
				So(raw, ShouldEqual, "Advanced")
				So(res.Records[1].Level.IsUnknown(), ShouldBeTrue)
			})
		})
	})

	Convey("Given a sheet with an employee column", t, func() {
		engine := inference.New()
		s := sheet(
			[]string{"Employee", "Skill", "Level"},
			[]string{"Dana", "Excel", "7"},
			[]string{"", "Word", "6"},
		)

		Convey("When parsing", func() {
			res := engine.Parse(s, "team_export.xlsx")

			Convey("Then the column overrides the filename where present", func() {
				So(res.Records[0].Employee, ShouldEqual, "Dana")
				So(res.Records[1].Employee, ShouldEqual, "Team Export")
			})
		})
	})

	Convey("Given extra configured synonyms", t, func() {
		engine := inference.New(inference.WithSkillHeaders("Fähigkeit"), inference.WithLevelHeaders("Stufe"))
		s := sheet([]string{"FÄHIGKEIT", "Stufe"}, []string{"Kotlin", "3"})

		Convey("Then they should be matched case-insensitively", func() {
			res := engine.Parse(s, "erik.xlsx")
			So(res.Heuristic, ShouldEqual, inference.HeuristicNamedColumns)
			So(res.Records, ShouldHaveLength, 1)
		})
	})
}

func TestEngine_Positional(t *testing.T) {
	Convey("Given a two-column sheet with unrecognised headers", t, func() {
		engine := inference.New()
		s := sheet(
			[]string{"Area", "Value"},
			[]string{"Python", "3"},
			[]string{"Docs", "n/a"},
			[]string{"SQL", "2.5"},
		)

		Convey("When parsing", func() {
			res := engine.Parse(s, "frank.xlsx")

			Convey("Then column 1 is the skill and column 2 the level", func() {
				So(res.Heuristic, ShouldEqual, inference.HeuristicPositional)
				So(res.Records, ShouldHaveLength, 3)
				So(levelOf(res.Records[0].Level), ShouldEqual, 3)
				raw, _ := res.Records[1].Level.Raw()
				So(raw, ShouldEqual, "n/a")
				So(levelOf(res.Records[2].Level), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a headerless two-column sheet", t, func() {
		engine := inference.New()
		s := sheet(
			[]string{"Python", "3"},
			[]string{"SQL", "2"},
		)

		Convey("When parsing", func() {
			res := engine.Parse(s, "gina.xlsx")

			Convey("Then the first row is data as well", func() {
				So(res.Heuristic, ShouldEqual, inference.HeuristicPositional)
				So(res.Records, ShouldHaveLength, 2)
				So(res.Records[0].Skill, ShouldEqual, "Python")
			})
		})
	})

	Convey("Given a two-column sheet with too few numeric values", t, func() {
		engine := inference.New()
		rows := [][]string{{"Area", "Comment"}}
		for i := 0; i < 10; i++ {
			rows = append(rows, []string{fmt.Sprintf("topic %d", i), "fine"})
		}
		rows[1][1] = "1"
		rows[2][1] = "2"
		s := sheet(rows...)

		Convey("Then positional is rejected below 30 percent", func() {
			res := engine.Parse(s, "hank.xlsx")
			So(res.Heuristic, ShouldNotEqual, inference.HeuristicPositional)
		})
	})

	Convey("Property: one record per non-empty skill cell with the integer level", t, func() {
		engine := inference.New()
		for n := 1; n <= 12; n++ {
			rows := [][]string{{"Topic", "Mark"}}
			want := 0
			for i := 0; i < n; i++ {
				name := fmt.Sprintf("skill-%d", i)
				if i%4 == 3 {
					name = ""
				} else {
					want++
				}
				rows = append(rows, []string{name, fmt.Sprintf("%d.75", i%11)})
			}
			res := engine.Parse(sheet(rows...), "prop.xlsx")
			So(res.Records, ShouldHaveLength, want)
			for _, r := range res.Records {
				var i int
				_, err := fmt.Sscanf(r.Skill, "skill-%d", &i)
				So(err, ShouldBeNil)
				So(levelOf(r.Level), ShouldEqual, i%11)
			}
		}
	})
}

func TestEngine_WideMatrix(t *testing.T) {
	Convey("Given a wide matrix with skills as headers", t, func() {
		engine := inference.New()
		s := sheet(
			[]string{"Name", "Notes", "Python", "SQL", "", "Go"},
			[]string{"x", "ok", "3", "11", "4", "abc"},
			[]string{"y", "fine", "", "0", "10.5", "-1"},
		)

		Convey("When parsing", func() {
			res := engine.Parse(s, "ivan_c2.xlsx")

			Convey("Then each in-range cell becomes a record named by its header", func() {
				So(res.Heuristic, ShouldEqual, inference.HeuristicWideMatrix)
				So(res.Records, ShouldHaveLength, 4)
				So(res.Records[0].Skill, ShouldEqual, "Python")
				So(res.Records[1].Skill, ShouldEqual, "Column E")
				So(res.Records[2].Skill, ShouldEqual, "SQL")
				So(levelOf(res.Records[2].Level), ShouldEqual, 0)
				So(levelOf(res.Records[3].Level), ShouldEqual, 10)
				So(res.Records[3].Cycle, ShouldEqual, model.Cycle2)
				So(res.Records[3].Employee, ShouldEqual, "Ivan")
			})
		})
	})

	Convey("Given a team matrix with an employee column", t, func() {
		engine := inference.New()
		s := sheet(
			[]string{"Employee", "Team", "Python", "SQL", "Java"},
			[]string{"Jo", "ops", "3", "4", "x"},
			[]string{"Kim", "dev", "5", "y", "z"},
		)

		Convey("Then rows are attributed to the employee in the row", func() {
			res := engine.Parse(s, "team.xlsx")
			So(res.Heuristic, ShouldEqual, inference.HeuristicWideMatrix)
			So(res.Records, ShouldHaveLength, 3)
			So(res.Records[0].Employee, ShouldEqual, "Jo")
			So(res.Records[2].Employee, ShouldEqual, "Kim")
		})
	})

	Convey("Property: one record per column per qualifying row", t, func() {
		engine := inference.New()
		rows := [][]string{{"Label", "Comment", "A", "B", "C", "D", "E"}}
		for r := 0; r < 6; r++ {
			row := []string{"row", "none"}
			for c := 0; c < 5; c++ {
				row = append(row, fmt.Sprintf("%d", (r+c)%11))
			}
			rows = append(rows, row)
		}

		res := engine.Parse(sheet(rows...), "matrix.xlsx")
		So(res.Heuristic, ShouldEqual, inference.HeuristicWideMatrix)
		So(res.Records, ShouldHaveLength, 6*5)
		for i, r := range res.Records {
			row, col := i/5, i%5
			So(r.Skill, ShouldEqual, string(rune('A'+col)))
			So(levelOf(r.Level), ShouldEqual, (row+col)%11)
		}
	})
}

func TestEngine_CellDump(t *testing.T) {
	Convey("Given a sheet of free text only", t, func() {
		engine := inference.New()
		long := strings.Repeat("a", 80)
		longest := strings.Repeat("é", 79)
		s := sheet(
			[]string{"Notes"},
			[]string{"Public speaking"},
			[]string{"   "},
			[]string{long},
			[]string{longest},
			[]string{"Mentoring"},
		)

		Convey("When parsing", func() {
			res := engine.Parse(s, "lee.xlsx")

			Convey("Then short cells become skills with unknown levels", func() {
				So(res.Heuristic, ShouldEqual, inference.HeuristicCellDump)
				So(res.Records, ShouldHaveLength, 3)
				So(res.Records[0].Skill, ShouldEqual, "Public speaking")
				So(res.Records[0].Level.IsUnknown(), ShouldBeTrue)
				So(res.Records[2].Skill, ShouldEqual, "Mentoring")
			})

			Convey("Then a 79 character cell is kept and an 80 character one is not", func() {
				So(res.Records[1].Skill, ShouldEqual, longest)
				for _, r := range res.Records {
					So(r.Skill, ShouldNotEqual, long)
				}
			})
		})
	})

	Convey("Given sheets with nothing to recover", t, func() {
		engine := inference.New()

		Convey("Then an empty sheet yields no records", func() {
			res := engine.Parse(model.Sheet{}, "empty.xlsx")
			So(res.Records, ShouldBeEmpty)
			So(res.Heuristic, ShouldEqual, inference.HeuristicNone)
			So(res.Employee, ShouldEqual, "Empty")
		})

		Convey("And a header-only sheet yields no records", func() {
			res := engine.Parse(sheet([]string{"Skill", "Level"}), "hdr.xlsx")
			So(res.Records, ShouldBeEmpty)
		})
	})
}

func TestEngine_ParseWorkbook(t *testing.T) {
	Convey("Given a previously exported master workbook", t, func() {
		engine := inference.New()
		wb := model.Workbook{
			Name: "final_master.xlsx",
			Sheets: []model.Sheet{
				{Name: model.SheetCycle1, Rows: [][]string{{"Employee", "Skill", "Level"}, {"Alice", "SQL", "2"}}},
				{Name: model.SheetCycle2, Rows: [][]string{{"Employee", "Skill", "Level"}, {"Alice", "Python", "5"}, {"Bob", "Go", ""}}},
				{Name: model.SheetMaster, Rows: [][]string{{"Employee", "Skill", "Level"}}},
			},
		}

		Convey("When parsing the workbook", func() {
			res := engine.ParseWorkbook(wb)

			Convey("Then rows keep their employee and cycle", func() {
				So(res.Heuristic, ShouldEqual, inference.HeuristicPriorMaster)
				So(res.Records, ShouldHaveLength, 3)
				So(res.Records[0].Cycle, ShouldEqual, model.Cycle1)
				So(res.Records[1].Cycle, ShouldEqual, model.Cycle2)
				So(res.Records[2].Employee, ShouldEqual, "Bob")
				So(res.Records[2].Level.IsUnknown(), ShouldBeTrue)
			})
		})
	})

	Convey("Given an ordinary multi-sheet workbook", t, func() {
		engine := inference.New()
		wb := model.Workbook{
			Name: "mia_cycle2.xlsx",
			Sheets: []model.Sheet{
				{Name: "Skills", Rows: [][]string{{"Skill", "Score"}, {"Design", "6"}}},
				{Name: "Other", Rows: [][]string{{"Skill", "Score"}, {"Ignored", "1"}}},
			},
		}

		Convey("Then only the first sheet is parsed", func() {
			res := engine.ParseWorkbook(wb)
			So(res.Records, ShouldHaveLength, 1)
			So(res.Records[0].Skill, ShouldEqual, "Design")
			So(res.Cycle, ShouldEqual, model.Cycle2)
		})
	})

	Convey("Given a workbook with no sheets", t, func() {
		res := inference.New().ParseWorkbook(model.Workbook{Name: "void.xlsx"})
		So(res.Records, ShouldBeEmpty)
	})
}
