package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "cardapp-backend/internal/domain/application"
	domainCard "cardapp-backend/internal/domain/card"
	"cardapp-backend/internal/domain/uow"
	"cardapp-backend/internal/scoring"
	"cardapp-backend/internal/testutil/appmock"
	"cardapp-backend/internal/testutil/cardmock"
	"cardapp-backend/internal/testutil/uowmock"
	"cardapp-backend/pkg/appnum"

	"gorm.io/gorm"
)

// fixedSrc pins the scoring variance term to v-50.
type fixedSrc struct{ v int }

func (f fixedSrc) IntN(int) int { return f.v }

func validSubmitInput() SubmitInput {
	return SubmitInput{
		FullName:     "Asha Verma",
		DateOfBirth:  time.Now().UTC().AddDate(-40, 0, -1), // age 40
		PAN:          "ABCDE1234F",
		AnnualIncome: 1_200_000,
		Email:        "asha.verma@example.com",
		Phone:        "9876543210",
		Profession:   ProfessionInput{Type: "SALARIED", Company: "Acme Industries"},
		Address: AddressInput{
			Line1:      "12 MG Road",
			City:       "Bengaluru",
			State:      "Karnataka",
			PostalCode: "560001",
		},
		CardType: "VISA",
	}
}

func newSubmitUsecase(repo *appmock.Repo, src scoring.Source) *Usecase {
	tx := uowmock.New(uow.Repos{Applications: repo, Cards: &cardmock.Repo{}})
	return NewUsecase(repo, tx, scoring.NewCalculator(src), StrictTransitions)
}

func TestSubmit_Success(t *testing.T) {
	var createdEvents []domain.StatusEvent
	repo := &appmock.Repo{
		GetByPANFn: func(ctx context.Context, pan string) (*domain.Application, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(ctx context.Context, a *domain.Application) error {
			a.ID = 1
			a.CreatedAt = time.Now().UTC()
			return nil
		},
		AppendEventFn: func(ctx context.Context, ev *domain.StatusEvent) error {
			createdEvents = append(createdEvents, *ev)
			return nil
		},
	}
	// variance pinned to 0: 550 + 70 (age 40) + 80 (income 1.2M) + 50 (salaried) = 750
	uc := newSubmitUsecase(repo, fixedSrc{v: 50})

	dto, err := uc.Submit(context.Background(), validSubmitInput())
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if !appnum.Valid(dto.ApplicationNumber) {
		t.Fatalf("application number %q", dto.ApplicationNumber)
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status = %s", dto.Status)
	}
	if dto.CreditScore != 750 {
		t.Fatalf("score = %d, want 750", dto.CreditScore)
	}
	// 750 -> multiplier 2.5; monthly 100k -> 250000
	if dto.CreditLimit != 250_000 {
		t.Fatalf("limit = %d, want 250000", dto.CreditLimit)
	}
	if len(createdEvents) != 1 {
		t.Fatalf("events appended = %d, want 1", len(createdEvents))
	}
	ev := createdEvents[0]
	if ev.Status != domain.StatusPending || ev.ChangedBy != systemActor {
		t.Fatalf("first event = %+v", ev)
	}
	if ev.Reason == nil || *ev.Reason != submittedEventNote {
		t.Fatalf("first event reason = %v", ev.Reason)
	}
	if len(dto.StatusHistory) != 1 {
		t.Fatalf("history in DTO = %d", len(dto.StatusHistory))
	}
}

func TestSubmit_DuplicatePAN_NoWrite(t *testing.T) {
	repo := &appmock.Repo{
		GetByPANFn: func(ctx context.Context, pan string) (*domain.Application, error) {
			return &domain.Application{ApplicationNumber: "APP-2026-00001"}, nil
		},
		CreateFn: func(ctx context.Context, a *domain.Application) error {
			t.Fatal("Create must not be called for a duplicate PAN")
			return nil
		},
		AppendEventFn: func(ctx context.Context, ev *domain.StatusEvent) error {
			t.Fatal("AppendEvent must not be called for a duplicate PAN")
			return nil
		},
	}
	uc := newSubmitUsecase(repo, fixedSrc{v: 50})

	_, err := uc.Submit(context.Background(), validSubmitInput())
	if !errors.Is(err, domain.ErrDuplicateApplicant) {
		t.Fatalf("err = %v, want DUPLICATE_APPLICANT", err)
	}
}

func TestSubmit_Underage_NoTransaction(t *testing.T) {
	repo := &appmock.Repo{}
	tx := &uowmock.UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			t.Fatal("transaction must not start for an ineligible age")
			return nil
		},
	}
	uc := NewUsecase(repo, tx, scoring.NewCalculator(fixedSrc{v: 50}), StrictTransitions)

	in := validSubmitInput()
	in.DateOfBirth = time.Now().UTC().AddDate(-20, 0, 0) // age 20
	_, err := uc.Submit(context.Background(), in)
	if !errors.Is(err, domain.ErrAgeNotEligible) {
		t.Fatalf("err = %v, want AGE_NOT_ELIGIBLE", err)
	}

	in.DateOfBirth = time.Now().UTC().AddDate(-66, 0, -1) // age 66
	_, err = uc.Submit(context.Background(), in)
	if !errors.Is(err, domain.ErrAgeNotEligible) {
		t.Fatalf("err = %v, want AGE_NOT_ELIGIBLE", err)
	}
}

func TestSubmit_LowScore_NoWrite(t *testing.T) {
	repo := &appmock.Repo{
		GetByPANFn: func(ctx context.Context, pan string) (*domain.Application, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(ctx context.Context, a *domain.Application) error {
			t.Fatal("Create must not be called when the score gate fails")
			return nil
		},
	}
	// A source returning a large negative value drags the total under 550
	// even with the minimum band bonuses.
	uc := newSubmitUsecase(repo, fixedSrc{v: -100})

	in := validSubmitInput()
	in.DateOfBirth = time.Now().UTC().AddDate(-22, 0, -1) // age 22 -> +20
	in.AnnualIncome = 200_000                             // +20
	in.Profession.Type = "SELF_EMPLOYED"                  // +30

	_, err := uc.Submit(context.Background(), in)
	if !errors.Is(err, domain.ErrLowCreditScore) {
		t.Fatalf("err = %v, want LOW_CREDIT_SCORE", err)
	}
}

func TestSubmit_InvalidInput(t *testing.T) {
	uc := newSubmitUsecase(&appmock.Repo{}, fixedSrc{v: 50})

	for name, mutate := range map[string]func(*SubmitInput){
		"missing name":       func(in *SubmitInput) { in.FullName = " " },
		"bad card type":      func(in *SubmitInput) { in.CardType = "AMEX" },
		"bad profession":     func(in *SubmitInput) { in.Profession.Type = "STUDENT" },
		"zero income":        func(in *SubmitInput) { in.AnnualIncome = 0 },
		"missing postal":     func(in *SubmitInput) { in.Address.PostalCode = "" },
		"zero date of birth": func(in *SubmitInput) { in.DateOfBirth = time.Time{} },
	} {
		in := validSubmitInput()
		mutate(&in)
		if _, err := uc.Submit(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: err = %v, want VALIDATION_ERROR", name, err)
		}
	}
}

func TestSubmit_RetriesNumberCollision(t *testing.T) {
	attempts := 0
	numbers := map[string]bool{}
	repo := &appmock.Repo{
		GetByPANFn: func(ctx context.Context, pan string) (*domain.Application, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(ctx context.Context, a *domain.Application) error {
			attempts++
			numbers[a.ApplicationNumber] = true
			if attempts == 1 {
				return gorm.ErrDuplicatedKey
			}
			a.ID = 7
			return nil
		},
	}
	uc := newSubmitUsecase(repo, fixedSrc{v: 50})

	dto, err := uc.Submit(context.Background(), validSubmitInput())
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("create attempts = %d, want 2", attempts)
	}
	if !numbers[dto.ApplicationNumber] {
		t.Fatalf("returned number %q was never inserted", dto.ApplicationNumber)
	}
}

// ---- status changes ----

type changeFixture struct {
	repo     *appmock.Repo
	cards    *cardmock.Repo
	app      *domain.Application
	updated  []uint64 // expected revisions passed to UpdateStatus
	appended []domain.StatusEvent
}

func newChangeFixture(status domain.Status) *changeFixture {
	reason := "Application submitted by customer"
	f := &changeFixture{
		app: &domain.Application{
			ID:                42,
			ApplicationNumber: "APP-2026-00042",
			CardType:          domain.CardVisa,
			Status:            status,
			CreditScore:       720,
			CreditLimit:       200_000,
			Revision:          3,
			Events: []domain.StatusEvent{
				{ApplicationID: 42, Status: domain.StatusPending, ChangedBy: "SYSTEM", Reason: &reason},
			},
		},
		cards: &cardmock.Repo{},
	}
	f.repo = &appmock.Repo{
		GetByNumberForUpdateFn: func(ctx context.Context, number string) (*domain.Application, error) {
			if number != f.app.ApplicationNumber {
				return nil, gorm.ErrRecordNotFound
			}
			return f.app, nil
		},
		UpdateStatusFn: func(ctx context.Context, a *domain.Application, expected uint64) error {
			f.updated = append(f.updated, expected)
			return nil
		},
		AppendEventFn: func(ctx context.Context, ev *domain.StatusEvent) error {
			f.appended = append(f.appended, *ev)
			return nil
		},
	}
	return f
}

func (f *changeFixture) usecase(policy TransitionPolicy) *Usecase {
	tx := uowmock.New(uow.Repos{Applications: f.repo, Cards: f.cards})
	return NewUsecase(f.repo, tx, scoring.NewCalculator(fixedSrc{v: 50}), policy)
}

func TestChangeStatus_ApproveWithOverride(t *testing.T) {
	f := newChangeFixture(domain.StatusPending)
	uc := f.usecase(StrictTransitions)

	override := 300_000
	dto, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
		ApplicationNumber:   "APP-2026-00042",
		NewStatus:           "APPROVED",
		CreditLimitOverride: &override,
		ChangedBy:           "APPROVER",
	})
	if err != nil {
		t.Fatalf("ChangeStatus err: %v", err)
	}
	if dto.Status != string(domain.StatusApproved) {
		t.Fatalf("status = %s", dto.Status)
	}
	if dto.CreditLimit != 300_000 {
		t.Fatalf("limit = %d, want override 300000", dto.CreditLimit)
	}
	if len(f.updated) != 1 || f.updated[0] != 3 {
		t.Fatalf("CAS expected revisions = %v, want [3]", f.updated)
	}
	if len(f.appended) != 1 {
		t.Fatalf("events appended = %d, want 1", len(f.appended))
	}
	last := dto.StatusHistory[len(dto.StatusHistory)-1]
	if last.Status != string(domain.StatusApproved) {
		t.Fatalf("last history entry = %+v", last)
	}
	if last.Reason == nil || *last.Reason != "Status changed to APPROVED" {
		t.Fatalf("event reason = %v", last.Reason)
	}
	if len(dto.StatusHistory) != 2 {
		t.Fatalf("history length = %d, want previous+1", len(dto.StatusHistory))
	}
}

func TestChangeStatus_RejectRequiresReason(t *testing.T) {
	f := newChangeFixture(domain.StatusPending)
	uc := f.usecase(StrictTransitions)

	_, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
		ApplicationNumber: "APP-2026-00042",
		NewStatus:         "REJECTED",
		RejectionReason:   "   ",
	})
	if !errors.Is(err, domain.ErrMissingRejectionReason) {
		t.Fatalf("err = %v, want MISSING_REJECTION_REASON", err)
	}
	if len(f.appended) != 0 {
		t.Fatalf("history grew by %d entries on a failed change", len(f.appended))
	}
}

func TestChangeStatus_RejectSetsReason(t *testing.T) {
	f := newChangeFixture(domain.StatusCheckInProgress)
	uc := f.usecase(StrictTransitions)

	dto, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
		ApplicationNumber: "APP-2026-00042",
		NewStatus:         "REJECTED",
		RejectionReason:   "Income documents inconsistent",
	})
	if err != nil {
		t.Fatalf("ChangeStatus err: %v", err)
	}
	if dto.RejectionReason == nil || *dto.RejectionReason != "Income documents inconsistent" {
		t.Fatalf("rejectionReason = %v", dto.RejectionReason)
	}
	last := f.appended[len(f.appended)-1]
	if last.Reason == nil || *last.Reason != "Income documents inconsistent" {
		t.Fatalf("event reason = %v", last.Reason)
	}
}

func TestChangeStatus_ClearsReasonWhenNotRejected(t *testing.T) {
	f := newChangeFixture(domain.StatusPending)
	old := "previously rejected"
	f.app.RejectionReason = &old
	uc := f.usecase(StrictTransitions)

	dto, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
		ApplicationNumber: "APP-2026-00042",
		NewStatus:         "CHECK_IN_PROGRESS",
	})
	if err != nil {
		t.Fatalf("ChangeStatus err: %v", err)
	}
	if dto.RejectionReason != nil {
		t.Fatalf("rejectionReason = %v, want cleared", *dto.RejectionReason)
	}
}

func TestChangeStatus_InvalidStatusValue(t *testing.T) {
	f := newChangeFixture(domain.StatusPending)
	uc := f.usecase(StrictTransitions)

	_, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
		ApplicationNumber: "APP-2026-00042",
		NewStatus:         "SHIPPED",
	})
	if !errors.Is(err, domain.ErrInvalidStatusValue) {
		t.Fatalf("err = %v, want INVALID_STATUS_VALUE", err)
	}
}

func TestChangeStatus_StrictPolicyBlocksIllegalTransition(t *testing.T) {
	f := newChangeFixture(domain.StatusApproved)
	uc := f.usecase(StrictTransitions)

	_, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
		ApplicationNumber: "APP-2026-00042",
		NewStatus:         "REJECTED",
		RejectionReason:   "changed our mind",
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want INVALID_TRANSITION", err)
	}
	if len(f.updated) != 0 || len(f.appended) != 0 {
		t.Fatal("no write may happen on an illegal transition")
	}
}

func TestChangeStatus_PermissivePolicyAllowsOverride(t *testing.T) {
	f := newChangeFixture(domain.StatusApproved)
	uc := f.usecase(PermissiveTransitions)

	dto, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
		ApplicationNumber: "APP-2026-00042",
		NewStatus:         "REJECTED",
		RejectionReason:   "manual override",
	})
	if err != nil {
		t.Fatalf("ChangeStatus err: %v", err)
	}
	if dto.Status != string(domain.StatusRejected) {
		t.Fatalf("status = %s", dto.Status)
	}
}

func TestChangeStatus_DispatchIssuesCard(t *testing.T) {
	f := newChangeFixture(domain.StatusApproved)
	var issued *domainCard.CreditCard
	f.cards.CreateFn = func(ctx context.Context, c *domainCard.CreditCard) error {
		issued = c
		return nil
	}
	uc := f.usecase(StrictTransitions)

	dto, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
		ApplicationNumber: "APP-2026-00042",
		NewStatus:         "DISPATCHED",
	})
	if err != nil {
		t.Fatalf("ChangeStatus err: %v", err)
	}
	if issued == nil {
		t.Fatal("no card was issued on dispatch")
	}
	if issued.ApplicationNumber != "APP-2026-00042" || issued.CreditLimit != 200_000 {
		t.Fatalf("issued card = %+v", issued)
	}
	if dto.Card == nil || !strings.HasPrefix(dto.Card.MaskedNumber, "XXXX-XXXX-XXXX-") {
		t.Fatalf("card DTO = %+v", dto.Card)
	}
	if !domainCard.LuhnValid(issued.CardNumber) {
		t.Fatalf("issued card number %q fails Luhn", issued.CardNumber)
	}
}

func TestChangeStatus_NotFound(t *testing.T) {
	f := newChangeFixture(domain.StatusPending)
	uc := f.usecase(StrictTransitions)

	_, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
		ApplicationNumber: "APP-2026-99999",
		NewStatus:         "APPROVED",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestChangeStatus_ConflictSurfaces(t *testing.T) {
	f := newChangeFixture(domain.StatusPending)
	f.repo.UpdateStatusFn = func(ctx context.Context, a *domain.Application, expected uint64) error {
		return domain.ErrConflict
	}
	uc := f.usecase(StrictTransitions)

	_, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
		ApplicationNumber: "APP-2026-00042",
		NewStatus:         "APPROVED",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
	if len(f.appended) != 0 {
		t.Fatal("no event may be appended after a CAS miss")
	}
}

func TestChangeStatus_BadOverride(t *testing.T) {
	f := newChangeFixture(domain.StatusPending)
	uc := f.usecase(StrictTransitions)

	for _, bad := range []int{12_345, 10_000, 600_000} {
		override := bad
		_, err := uc.ChangeStatus(context.Background(), ChangeStatusInput{
			ApplicationNumber:   "APP-2026-00042",
			NewStatus:           "APPROVED",
			CreditLimitOverride: &override,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("override %d: err = %v, want VALIDATION_ERROR", bad, err)
		}
	}
}

// ---- reads ----

func TestGetByNumber_NotFound(t *testing.T) {
	repo := &appmock.Repo{
		GetByNumberFn: func(ctx context.Context, number string) (*domain.Application, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	uc := NewUsecase(repo, uowmock.New(uow.Repos{Applications: repo}), nil, StrictTransitions)

	if _, err := uc.GetByNumber(context.Background(), "APP-2026-00001"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestTrack_StripsPII(t *testing.T) {
	repo := &appmock.Repo{
		GetByNumberFn: func(ctx context.Context, number string) (*domain.Application, error) {
			return &domain.Application{
				ApplicationNumber: number,
				CardType:          domain.CardRupay,
				Status:            domain.StatusApproved,
				CreditLimit:       95_000,
				Applicant:         domain.Applicant{FullName: "Asha Verma", PAN: "ABCDE1234F"},
				Events: []domain.StatusEvent{
					{Status: domain.StatusPending, ChangedBy: "SYSTEM"},
					{Status: domain.StatusApproved, ChangedBy: "APPROVER"},
				},
			}, nil
		},
	}
	uc := NewUsecase(repo, uowmock.New(uow.Repos{Applications: repo}), nil, StrictTransitions)

	dto, err := uc.Track(context.Background(), "APP-2026-00007")
	if err != nil {
		t.Fatalf("Track err: %v", err)
	}
	if dto.Status != string(domain.StatusApproved) || len(dto.StatusHistory) != 2 {
		t.Fatalf("track DTO = %+v", dto)
	}
}

func TestList_PaginationMath(t *testing.T) {
	var gotPage domain.ListPage
	repo := &appmock.Repo{
		ListFn: func(ctx context.Context, f domain.ListFilter, p domain.ListPage) ([]domain.Application, int64, error) {
			gotPage = p
			items := make([]domain.Application, p.Limit)
			return items, 25, nil
		},
	}
	uc := NewUsecase(repo, uowmock.New(uow.Repos{Applications: repo}), nil, StrictTransitions)

	res, err := uc.List(context.Background(), ListInput{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if gotPage.Page != 2 || gotPage.Limit != 10 || gotPage.Offset() != 10 {
		t.Fatalf("page passed to repo = %+v", gotPage)
	}
	if res.TotalCount != 25 || res.TotalPages != 3 || len(res.Items) != 10 {
		t.Fatalf("result = total %d pages %d items %d", res.TotalCount, res.TotalPages, len(res.Items))
	}

	// defaults and clamps
	if _, err := uc.List(context.Background(), ListInput{Page: -3, Limit: 1000}); err != nil {
		t.Fatalf("List err: %v", err)
	}
	if gotPage.Page != 1 || gotPage.Limit != maxListLimit {
		t.Fatalf("clamped page = %+v", gotPage)
	}

	// default sort
	if gotPage.SortBy != "created_at" || !gotPage.SortDesc {
		t.Fatalf("default sort = %+v", gotPage)
	}
}

func TestList_RejectsUnknownStatusFilter(t *testing.T) {
	uc := NewUsecase(&appmock.Repo{}, uowmock.New(uow.Repos{Applications: &appmock.Repo{}}), nil, StrictTransitions)
	if _, err := uc.List(context.Background(), ListInput{Status: "SHIPPED"}); !errors.Is(err, domain.ErrInvalidStatusValue) {
		t.Fatalf("err = %v, want INVALID_STATUS_VALUE", err)
	}
}

func TestStats(t *testing.T) {
	repo := &appmock.Repo{
		CountByStatusFn: func(ctx context.Context) (map[domain.Status]int64, error) {
			return map[domain.Status]int64{
				domain.StatusPending:  4,
				domain.StatusApproved: 2,
				domain.StatusRejected: 1,
			}, nil
		},
	}
	uc := NewUsecase(repo, uowmock.New(uow.Repos{Applications: repo}), nil, StrictTransitions)

	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats err: %v", err)
	}
	if stats.Total != 7 {
		t.Fatalf("total = %d, want 7", stats.Total)
	}
	if stats.ByStatus[string(domain.StatusDispatched)] != 0 {
		t.Fatal("missing statuses must report zero")
	}
	if stats.ByStatus[string(domain.StatusPending)] != 4 {
		t.Fatalf("pending = %d", stats.ByStatus[string(domain.StatusPending)])
	}
}
