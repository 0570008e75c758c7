package plan_test

import (
	"errors"
	"testing"

	"github.com/okian/focusfork/internal/domain/plan"
	"github.com/smartystreets/goconvey/convey"
)

func validPlan() plan.FocusPlan {
	return plan.FocusPlan{
		Summary:              "Fix the flaky retry. It fails under load.",
		SuccessCriteria:      []string{"a", "b", "c"},
		StepByStepPlan:       []string{"read", "fix"},
		EstimatedTimeMinutes: 60,
	}
}

func TestFocusPlan_Validate(t *testing.T) {
	convey.Convey("Given focus plans", t, func() {
		convey.Convey("Then a well-formed plan passes", func() {
			convey.So(validPlan().Validate(), convey.ShouldBeNil)
		})

		cases := []struct {
			name   string
			mutate func(p *plan.FocusPlan)
		}{
			{"empty summary", func(p *plan.FocusPlan) { p.Summary = "  " }},
			{"two criteria", func(p *plan.FocusPlan) { p.SuccessCriteria = []string{"a", "b"} }},
			{"six criteria", func(p *plan.FocusPlan) { p.SuccessCriteria = []string{"a", "b", "c", "d", "e", "f"} }},
			{"no steps", func(p *plan.FocusPlan) { p.StepByStepPlan = nil }},
			{"estimate too small", func(p *plan.FocusPlan) { p.EstimatedTimeMinutes = 29 }},
			{"estimate too large", func(p *plan.FocusPlan) { p.EstimatedTimeMinutes = 121 }},
			{"blank criterion", func(p *plan.FocusPlan) { p.SuccessCriteria[1] = "" }},
			{"blank step", func(p *plan.FocusPlan) { p.StepByStepPlan[0] = " " }},
		}
		for _, tc := range cases {
			convey.Convey("Then a plan with "+tc.name+" is rejected", func() {
				p := validPlan()
				tc.mutate(&p)
				convey.So(errors.Is(p.Validate(), plan.ErrInvalidPlan), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then the estimate bounds are inclusive", func() {
			p := validPlan()
			p.EstimatedTimeMinutes = 30
			convey.So(p.Validate(), convey.ShouldBeNil)
			p.EstimatedTimeMinutes = 120
			convey.So(p.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestDecode(t *testing.T) {
	convey.Convey("Given raw model output", t, func() {
		raw := `{"summary":"s","success_criteria":["a","b","c","d"],"step_by_step_plan":["x"],"estimated_time_minutes":90}`

		convey.Convey("When it is plain JSON", func() {
			p, err := plan.Decode([]byte(raw))
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.EstimatedTimeMinutes, convey.ShouldEqual, 90)
			convey.So(len(p.SuccessCriteria), convey.ShouldEqual, 4)
		})

		convey.Convey("When it is wrapped in a fenced block", func() {
			p, err := plan.Decode([]byte("```json\n" + raw + "\n```"))
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Summary, convey.ShouldEqual, "s")
		})

		convey.Convey("When it is not JSON", func() {
			_, err := plan.Decode([]byte("sorry, I cannot help"))
			convey.So(errors.Is(err, plan.ErrInvalidPlan), convey.ShouldBeTrue)
		})

		convey.Convey("When it parses but breaks the schema", func() {
			_, err := plan.Decode([]byte(`{"summary":"s","success_criteria":["a"],"step_by_step_plan":["x"],"estimated_time_minutes":500}`))
			convey.So(errors.Is(err, plan.ErrInvalidPlan), convey.ShouldBeTrue)
		})
	})
}

func TestFallback(t *testing.T) {
	convey.Convey("Given the fallback plan", t, func() {
		p := plan.Fallback()

		convey.Convey("Then it satisfies the schema", func() {
			convey.So(p.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("And it is visibly marked", func() {
			convey.So(p.Summary, convey.ShouldContainSubstring, plan.FallbackMarker)
			convey.So(plan.IsFallback(p), convey.ShouldBeTrue)
			convey.So(plan.IsFallback(validPlan()), convey.ShouldBeFalse)
		})

		convey.Convey("And callers cannot alter later copies", func() {
			p.SuccessCriteria[0] = "changed"
			convey.So(plan.Fallback(), convey.ShouldNotResemble, p)
			convey.So(plan.Fallback(), convey.ShouldResemble, plan.Fallback())
		})
	})
}

func TestOutcome(t *testing.T) {
	convey.Convey("Given both outcome branches", t, func() {
		ok := plan.FromModel(validPlan())
		fb := plan.FromFallback(errors.New("quota"))

		convey.Convey("Then the branch is observable", func() {
			convey.So(ok.IsFallback(), convey.ShouldBeFalse)
			convey.So(ok.Err, convey.ShouldBeNil)
			convey.So(fb.IsFallback(), convey.ShouldBeTrue)
			convey.So(fb.Err.Error(), convey.ShouldEqual, "quota")
			convey.So(fb.Plan, convey.ShouldResemble, plan.Fallback())
		})
	})
}
