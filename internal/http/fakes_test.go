package httpx

import (
	"context"

	domainauth "github.com/pbflix/neteflix-api/internal/domain/auth"
	"github.com/pbflix/neteflix-api/internal/domain/model"
	"github.com/pbflix/neteflix-api/internal/ports"
	"github.com/pbflix/neteflix-api/internal/service"
)

// fakeSessionAPI is a programmable SessionAPI double for handler tests.
type fakeSessionAPI struct {
	RegisterFn     func(ctx context.Context, email, password string) (domainauth.Session, error)
	LoginFn        func(ctx context.Context, email, password string, persist bool) (domainauth.Session, error)
	SocialFn       func(ctx context.Context, in ports.SocialSignInInput, persist bool) (domainauth.Session, error)
	LogoutErr      error
	UserID         string
	Email          string
	KeepLogin      bool
	LogoutCalls    int
	LastSocialIn   ports.SocialSignInInput
	LastPersistArg bool
}

func (f *fakeSessionAPI) Register(ctx context.Context, email, password string) (domainauth.Session, error) {
	if f.RegisterFn != nil {
		return f.RegisterFn(ctx, email, password)
	}
	return domainauth.Session{UserID: email, KeepLoggedIn: true}, nil
}

func (f *fakeSessionAPI) Login(ctx context.Context, email, password string, persist bool) (domainauth.Session, error) {
	f.LastPersistArg = persist
	if f.LoginFn != nil {
		return f.LoginFn(ctx, email, password, persist)
	}
	return domainauth.Session{UserID: email, KeepLoggedIn: persist}, nil
}

func (f *fakeSessionAPI) LoginWithSocial(ctx context.Context, in ports.SocialSignInInput, persist bool) (domainauth.Session, error) {
	f.LastSocialIn = in
	f.LastPersistArg = persist
	if f.SocialFn != nil {
		return f.SocialFn(ctx, in, persist)
	}
	return domainauth.Session{UserID: f.UserID, KeepLoggedIn: persist}, nil
}

func (f *fakeSessionAPI) Logout(ctx context.Context) error {
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeSessionAPI) ActiveUserID(ctx context.Context) (string, bool) {
	return f.UserID, f.UserID != ""
}

func (f *fakeSessionAPI) RememberedEmail(ctx context.Context) (string, bool) {
	return f.Email, f.Email != ""
}

func (f *fakeSessionAPI) KeepLoginEnabled(ctx context.Context) bool { return f.KeepLogin }

type fakeWishlistAPI struct {
	Items     []model.WishlistItem
	ToggleErr error
	Added     bool
	LastUser  string
	LastMovie model.Movie
}

func (f *fakeWishlistAPI) Load(ctx context.Context, userID string) []model.WishlistItem {
	f.LastUser = userID
	return f.Items
}

func (f *fakeWishlistAPI) Toggle(ctx context.Context, userID string, movie model.Movie) (bool, []model.WishlistItem, error) {
	f.LastUser = userID
	f.LastMovie = movie
	if f.ToggleErr != nil {
		return false, nil, f.ToggleErr
	}
	return f.Added, f.Items, nil
}

type fakeNotesAPI struct {
	Notes  []model.Note
	AddErr error
	Last   string
}

func (f *fakeNotesAPI) Add(ctx context.Context, text string) (model.Note, error) {
	f.Last = text
	if f.AddErr != nil {
		return model.Note{}, f.AddErr
	}
	return model.Note{Text: text, UserID: "tester"}, nil
}

func (f *fakeNotesAPI) List(ctx context.Context) []model.Note { return f.Notes }

type fakeCatalogAPI struct {
	Home        service.HomeSections
	Results     []model.Movie
	SectionsErr error
	SearchErr   error
	LastQuery   string
	LastSort    model.SortKey
}

func (f *fakeCatalogAPI) Sections(ctx context.Context) (service.HomeSections, error) {
	if f.SectionsErr != nil {
		return service.HomeSections{}, f.SectionsErr
	}
	return f.Home, nil
}

func (f *fakeCatalogAPI) Search(ctx context.Context, query string, sortBy model.SortKey) ([]model.Movie, error) {
	f.LastQuery = query
	f.LastSort = sortBy
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return f.Results, nil
}

func (f *fakeCatalogAPI) PosterURL(path string) string { return "https://img.example" + path }
