package scout

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/focusfork/internal/domain/issue"
)

type fakeGetter struct {
	owner, repo string
	number      int
	err         error
}

func (f *fakeGetter) GetIssue(_ context.Context, owner, repo string, number int) (issue.CandidateIssue, error) {
	f.owner, f.repo, f.number = owner, repo, number
	if f.err != nil {
		return issue.CandidateIssue{}, f.err
	}
	return issue.CandidateIssue{Number: number, Title: "Real title"}, nil
}

func TestResolvers(t *testing.T) {
	Convey("Given direct issue resolvers", t, func() {
		ctx := context.Background()
		clock := func() time.Time { return now }

		Convey("The placeholder resolver builds a stand-in issue", func() {
			r := PlaceholderResolver{Now: clock}
			got, err := r.Resolve(ctx, "https://github.com/acme/widgets/issues/42")
			So(err, ShouldBeNil)
			So(got.Number, ShouldEqual, 42)
			So(got.Title, ShouldEqual, PlaceholderTitle)
			So(got.BodyText(), ShouldEqual, PlaceholderBody)
			So(got.CreatedAt.Equal(now), ShouldBeTrue)
			So(got.UpdatedAt.Equal(now), ShouldBeTrue)
			So(got.CommentCount, ShouldEqual, 0)
			So(got.Labels, ShouldBeEmpty)
			So(got.Repo(), ShouldEqual, "acme/widgets")
			So(got.HTMLURL, ShouldEqual, "https://github.com/acme/widgets/issues/42")
		})

		Convey("The placeholder resolver tolerates a non-numeric tail", func() {
			got, err := PlaceholderResolver{Now: clock}.Resolve(ctx, "https://github.com/acme/widgets")
			So(err, ShouldBeNil)
			So(got.Number, ShouldEqual, 0)
		})

		Convey("The placeholder resolver rejects non-urls", func() {
			_, err := PlaceholderResolver{}.Resolve(ctx, "not a url")
			So(errors.Is(err, ErrInvalidURL), ShouldBeTrue)
		})

		Convey("The fetch resolver loads the issue", func() {
			g := &fakeGetter{}
			got, err := FetchResolver{Getter: g}.Resolve(ctx, "https://github.com/acme/widgets/issues/7")
			So(err, ShouldBeNil)
			So(got.Title, ShouldEqual, "Real title")
			So(g.owner, ShouldEqual, "acme")
			So(g.repo, ShouldEqual, "widgets")
			So(g.number, ShouldEqual, 7)
		})

		Convey("The fetch resolver propagates failures", func() {
			_, err := FetchResolver{Getter: &fakeGetter{err: errors.New("404")}}.Resolve(ctx, "https://github.com/a/b/issues/1")
			So(err, ShouldNotBeNil)

			_, err = FetchResolver{Getter: &fakeGetter{}}.Resolve(ctx, "https://github.com/a/b/pull/1")
			So(errors.Is(err, ErrInvalidURL), ShouldBeTrue)
		})

		Convey("NewResolver picks by mode", func() {
			r, err := NewResolver("", &fakeGetter{}, clock)
			So(err, ShouldBeNil)
			So(r, ShouldHaveSameTypeAs, FetchResolver{})

			r, err = NewResolver("Placeholder", nil, clock)
			So(err, ShouldBeNil)
			So(r, ShouldHaveSameTypeAs, PlaceholderResolver{})

			_, err = NewResolver("guess", nil, clock)
			So(errors.Is(err, ErrUnknownMode), ShouldBeTrue)

			_, err = NewResolver(ModeFetch, nil, clock)
			So(errors.Is(err, ErrUnknownMode), ShouldBeTrue)
		})
	})
}
