package memory

import (
	"context"
	"testing"

	"github.com/dropDatabas3/orcidgate/internal/store"
)

func TestFindOrCreate_ProvisionsOnFirstSignIn(t *testing.T) {
	ctx := context.Background()
	s := New()

	r, isNew, err := s.FindOrCreate(ctx, store.UpsertResearcherInput{
		ORCID: "0000-0002-1825-0097",
		Name:  "Josiah Carberry",
	})
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if !isNew {
		t.Error("isNew = false on first sign-in")
	}
	if r.ID == "" {
		t.Error("ID not assigned")
	}
	if r.SignInCount != 1 {
		t.Errorf("SignInCount = %d, want 1", r.SignInCount)
	}
	if r.LastSignInAt == nil {
		t.Error("LastSignInAt not set")
	}
}

func TestFindOrCreate_AdvancesCountersOnReturn(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, _, err := s.FindOrCreate(ctx, store.UpsertResearcherInput{ORCID: "0000-0002-1825-0097", Name: "Josiah Carberry"})
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}

	second, isNew, err := s.FindOrCreate(ctx, store.UpsertResearcherInput{ORCID: "0000-0002-1825-0097", Name: "J. Carberry"})
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if isNew {
		t.Error("isNew = true on second sign-in")
	}
	if second.ID != first.ID {
		t.Errorf("ID changed across sign-ins: %s != %s", second.ID, first.ID)
	}
	if second.SignInCount != 2 {
		t.Errorf("SignInCount = %d, want 2", second.SignInCount)
	}
	if second.Name != "J. Carberry" {
		t.Errorf("Name = %q, want updated name", second.Name)
	}
}

func TestFindOrCreate_KeepsNameWhenInputEmpty(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, _, _ = s.FindOrCreate(ctx, store.UpsertResearcherInput{ORCID: "0000-0002-1825-0097", Name: "Josiah Carberry"})
	r, _, err := s.FindOrCreate(ctx, store.UpsertResearcherInput{ORCID: "0000-0002-1825-0097"})
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if r.Name != "Josiah Carberry" {
		t.Errorf("Name = %q, empty input should not clear it", r.Name)
	}
}

func TestGetByORCIDAndID(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, _, _ := s.FindOrCreate(ctx, store.UpsertResearcherInput{ORCID: "0000-0002-1825-0097", Name: "Josiah Carberry"})

	byORCID, err := s.GetByORCID(ctx, "0000-0002-1825-0097")
	if err != nil {
		t.Fatalf("GetByORCID: %v", err)
	}
	if byORCID.ID != created.ID {
		t.Errorf("GetByORCID returned ID %s, want %s", byORCID.ID, created.ID)
	}

	byID, err := s.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.ORCID != "0000-0002-1825-0097" {
		t.Errorf("GetByID returned ORCID %s", byID.ORCID)
	}

	if _, err := s.GetByORCID(ctx, "0000-0000-0000-0000"); !store.IsNotFound(err) {
		t.Errorf("GetByORCID(unknown) = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByID(ctx, "nope"); !store.IsNotFound(err) {
		t.Errorf("GetByID(unknown) = %v, want ErrNotFound", err)
	}
}

func TestList_OrdersByMostRecentSignIn(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, _, _ = s.FindOrCreate(ctx, store.UpsertResearcherInput{ORCID: "0000-0001-0000-0001", Name: "First"})
	_, _, _ = s.FindOrCreate(ctx, store.UpsertResearcherInput{ORCID: "0000-0001-0000-0002", Name: "Second"})

	// Second sign-in moves the first researcher back to the front.
	_, _, _ = s.FindOrCreate(ctx, store.UpsertResearcherInput{ORCID: "0000-0001-0000-0001"})

	got, err := s.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d rows, want 2", len(got))
	}
	if got[0].ORCID != "0000-0001-0000-0001" {
		t.Errorf("List[0].ORCID = %s, most recent sign-in should lead", got[0].ORCID)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v, want 2, nil", n, err)
	}
}

func TestList_Paginates(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, orcid := range []string{"0000-0001-0000-0001", "0000-0001-0000-0002", "0000-0001-0000-0003"} {
		_, _, _ = s.FindOrCreate(ctx, store.UpsertResearcherInput{ORCID: orcid})
	}

	page, err := s.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("List(2, 2) returned %d rows, want 1", len(page))
	}

	empty, err := s.List(ctx, 2, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("List past the end returned %d rows", len(empty))
	}
}
