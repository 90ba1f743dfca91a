package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "cardapp-backend/internal/domain/application"
	domainCard "cardapp-backend/internal/domain/card"
	"cardapp-backend/internal/domain/uow"
	"cardapp-backend/internal/scoring"
	"cardapp-backend/pkg/appnum"

	"gorm.io/gorm"
)

const (
	// attempts at generating a unique application number before giving up
	maxNumberAttempts = 5

	systemActor        = "SYSTEM"
	submittedEventNote = "Application submitted by customer"
	defaultActor       = "APPROVER"
	defaultListLimit   = 10
	maxListLimit       = 100
)

// TransitionPolicy controls whether the strict transition table is enforced
// on status changes. Permissive keeps only the hard invariants (recognized
// status, rejection reason) and lets approvers set any status manually.
type TransitionPolicy int

const (
	StrictTransitions TransitionPolicy = iota
	PermissiveTransitions
)

type Usecase struct {
	repo   domain.Repository
	uow    uow.UnitOfWork
	calc   *scoring.Calculator
	policy TransitionPolicy
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, calc *scoring.Calculator, policy TransitionPolicy) *Usecase {
	if calc == nil {
		calc = scoring.NewCalculator(nil)
	}
	return &Usecase{repo: repo, uow: tx, calc: calc, policy: policy}
}

// Submit runs the full intake flow: field checks, age gate, duplicate-PAN
// check, scoring, score gate, credit limit, then a single transactional write
// of the application plus its first history entry. Any gate failure performs
// no write.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*ApplicationDTO, error) {
	cardType, employment, err := validateSubmit(&in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if v := scoring.CheckAge(in.DateOfBirth, now); !v.Eligible {
		return nil, domain.ErrAgeNotEligible
	}

	var dto *ApplicationDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// Duplicate PAN blocks the submission before any scoring happens.
		if _, err := r.Applications.GetByPAN(ctx, in.PAN); err == nil {
			return domain.ErrDuplicateApplicant
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		score := u.calc.Score(scoring.Applicant{
			DateOfBirth:  in.DateOfBirth,
			AnnualIncome: in.AnnualIncome,
			Employment:   employment,
		}, now)
		if v := scoring.CheckScore(score); !v.Eligible {
			return domain.ErrLowCreditScore
		}

		app := &domain.Application{
			CardType:    cardType,
			Status:      domain.StatusPending,
			CreditScore: score,
			CreditLimit: scoring.CreditLimit(score, in.AnnualIncome),
			Revision:    1,
			Applicant: domain.Applicant{
				FullName:     in.FullName,
				DateOfBirth:  in.DateOfBirth,
				PAN:          in.PAN,
				AnnualIncome: in.AnnualIncome,
				Email:        in.Email,
				Phone:        in.Phone,
				Profession: domain.Profession{
					Type:    domain.ProfessionType(employment),
					Company: in.Profession.Company,
				},
				Address: domain.Address{
					Line1:      in.Address.Line1,
					Line2:      in.Address.Line2,
					City:       in.Address.City,
					State:      in.Address.State,
					PostalCode: in.Address.PostalCode,
				},
			},
		}

		if err := u.insertWithFreshNumber(ctx, r, app); err != nil {
			return err
		}

		note := submittedEventNote
		ev := &domain.StatusEvent{
			ApplicationID: app.ID,
			Status:        domain.StatusPending,
			ChangedAt:     now,
			ChangedBy:     systemActor,
			Reason:        &note,
		}
		if err := r.Applications.AppendEvent(ctx, ev); err != nil {
			return err
		}
		app.Events = []domain.StatusEvent{*ev}

		dto = toDTO(app, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// insertWithFreshNumber retries on application-number collisions; a
// duplicate-key error caused by the PAN index is surfaced as
// DUPLICATE_APPLICANT instead of being retried forever.
func (u *Usecase) insertWithFreshNumber(ctx context.Context, r uow.Repos, app *domain.Application) error {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		app.ApplicationNumber = appnum.New()
		err := r.Applications.Create(ctx, app)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if _, lookupErr := r.Applications.GetByPAN(ctx, app.Applicant.PAN); lookupErr == nil {
			return domain.ErrDuplicateApplicant
		}
	}
	return fmt.Errorf("could not allocate a unique application number after %d attempts", maxNumberAttempts)
}

// ChangeStatus applies one approver-initiated transition: policy check,
// compare-and-swap on the revision counter, one appended history entry, and
// card issuance when the application is dispatched.
func (u *Usecase) ChangeStatus(ctx context.Context, in ChangeStatusInput) (*ApplicationDTO, error) {
	newStatus, ok := domain.ParseStatus(in.NewStatus)
	if !ok {
		return nil, domain.ErrInvalidStatusValue
	}
	reason := strings.TrimSpace(in.RejectionReason)
	if newStatus == domain.StatusRejected && reason == "" {
		return nil, domain.ErrMissingRejectionReason
	}
	if o := in.CreditLimitOverride; o != nil {
		if *o < scoring.MinCreditLimit || *o > scoring.MaxCreditLimit || *o%5000 != 0 {
			return nil, domain.ErrValidation
		}
	}
	actor := in.ChangedBy
	if actor == "" {
		actor = defaultActor
	}

	var dto *ApplicationDTO
	err := u.uow.WithinApplicationTx(ctx, in.ApplicationNumber, func(r uow.Repos, app *domain.Application) error {
		if u.policy == StrictTransitions && !domain.CanTransition(app.Status, newStatus) {
			return domain.ErrInvalidTransition
		}

		now := time.Now().UTC()
		expected := app.Revision
		app.Status = newStatus
		if newStatus == domain.StatusRejected {
			app.RejectionReason = &reason
		} else {
			app.RejectionReason = nil
		}
		if in.CreditLimitOverride != nil {
			app.CreditLimit = *in.CreditLimitOverride
		}
		app.Revision = expected + 1
		app.UpdatedAt = now

		if err := r.Applications.UpdateStatus(ctx, app, expected); err != nil {
			return err
		}

		note := "Status changed to " + string(newStatus)
		if newStatus == domain.StatusRejected {
			note = reason
		}
		ev := &domain.StatusEvent{
			ApplicationID: app.ID,
			Status:        newStatus,
			ChangedAt:     now,
			ChangedBy:     actor,
			Reason:        &note,
		}
		if err := r.Applications.AppendEvent(ctx, ev); err != nil {
			return err
		}
		app.Events = append(app.Events, *ev)

		var issued *domainCard.CreditCard
		if newStatus == domain.StatusDispatched {
			issued = domainCard.Issue(app.ApplicationNumber, app.CardType, app.CreditLimit, now)
			if err := r.Cards.Create(ctx, issued); err != nil {
				return err
			}
		}

		dto = toDTO(app, issued)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) GetByNumber(ctx context.Context, number string) (*ApplicationDTO, error) {
	app, err := u.repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(app, nil), nil
}

// Track is the public tracking view: same lookup, PII stripped.
func (u *Usecase) Track(ctx context.Context, number string) (*TrackDTO, error) {
	app, err := u.repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &TrackDTO{
		ApplicationNumber: app.ApplicationNumber,
		CardType:          string(app.CardType),
		Status:            string(app.Status),
		CreditLimit:       app.CreditLimit,
		RejectionReason:   app.RejectionReason,
		StatusHistory:     toEventDTOs(app.Events),
		SubmittedAt:       app.CreatedAt,
	}, nil
}

// sortColumns whitelists the sortable fields (query key -> column).
var sortColumns = map[string]string{
	"createdAt":         "created_at",
	"updatedAt":         "updated_at",
	"creditScore":       "credit_score",
	"creditLimit":       "credit_limit",
	"status":            "status",
	"applicationNumber": "application_number",
}

func (u *Usecase) List(ctx context.Context, in ListInput) (*ListResult, error) {
	var filter domain.ListFilter
	if in.Status != "" {
		s, ok := domain.ParseStatus(in.Status)
		if !ok {
			return nil, domain.ErrInvalidStatusValue
		}
		filter.Status = &s
	}
	if in.CardType != "" {
		ct, ok := domain.ParseCardType(in.CardType)
		if !ok {
			return nil, domain.ErrValidation
		}
		filter.CardType = &ct
	}
	filter.Search = strings.TrimSpace(in.Search)

	page := domain.ListPage{
		Page:     in.Page,
		Limit:    in.Limit,
		SortBy:   sortColumns["createdAt"],
		SortDesc: true,
	}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = defaultListLimit
	}
	if page.Limit > maxListLimit {
		page.Limit = maxListLimit
	}
	if col, ok := sortColumns[in.SortBy]; ok {
		page.SortBy = col
		page.SortDesc = in.SortDesc
	}

	items, total, err := u.repo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	out := &ListResult{
		Items:      make([]ApplicationDTO, 0, len(items)),
		TotalCount: total,
		Page:       page.Page,
		TotalPages: int((total + int64(page.Limit) - 1) / int64(page.Limit)),
	}
	for i := range items {
		out.Items = append(out.Items, *toDTO(&items[i], nil))
	}
	return out, nil
}

// Stats feeds the dashboard header: total plus a count per status, with
// zeroes for statuses that have no applications yet.
func (u *Usecase) Stats(ctx context.Context) (*StatsDTO, error) {
	counts, err := u.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := &StatsDTO{ByStatus: map[string]int64{}}
	for _, s := range []domain.Status{
		domain.StatusPending, domain.StatusCheckInProgress,
		domain.StatusApproved, domain.StatusRejected, domain.StatusDispatched,
	} {
		n := counts[s]
		out.ByStatus[string(s)] = n
		out.Total += n
	}
	return out, nil
}

func validateSubmit(in *SubmitInput) (domain.CardType, scoring.Employment, error) {
	in.PAN = strings.ToUpper(strings.TrimSpace(in.PAN))
	if strings.TrimSpace(in.FullName) == "" || in.PAN == "" ||
		strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Phone) == "" ||
		in.DateOfBirth.IsZero() || in.AnnualIncome <= 0 ||
		strings.TrimSpace(in.Profession.Company) == "" ||
		strings.TrimSpace(in.Address.Line1) == "" ||
		strings.TrimSpace(in.Address.City) == "" ||
		strings.TrimSpace(in.Address.State) == "" ||
		strings.TrimSpace(in.Address.PostalCode) == "" {
		return "", "", domain.ErrValidation
	}
	cardType, ok := domain.ParseCardType(in.CardType)
	if !ok {
		return "", "", domain.ErrValidation
	}
	var employment scoring.Employment
	switch domain.ProfessionType(strings.ToUpper(strings.TrimSpace(in.Profession.Type))) {
	case domain.ProfessionSalaried:
		employment = scoring.EmploymentSalaried
	case domain.ProfessionSelfEmployed:
		employment = scoring.EmploymentSelfEmployed
	default:
		return "", "", domain.ErrValidation
	}
	return cardType, employment, nil
}

func toEventDTOs(events []domain.StatusEvent) []StatusEventDTO {
	out := make([]StatusEventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, StatusEventDTO{
			Status:    string(ev.Status),
			ChangedAt: ev.ChangedAt,
			ChangedBy: ev.ChangedBy,
			Reason:    ev.Reason,
		})
	}
	return out
}

func toDTO(app *domain.Application, issued *domainCard.CreditCard) *ApplicationDTO {
	dto := &ApplicationDTO{
		ApplicationNumber: app.ApplicationNumber,
		CardType:          string(app.CardType),
		Status:            string(app.Status),
		CreditScore:       app.CreditScore,
		CreditLimit:       app.CreditLimit,
		RejectionReason:   app.RejectionReason,
		Applicant: ApplicantDTO{
			FullName:     app.Applicant.FullName,
			DateOfBirth:  app.Applicant.DateOfBirth,
			PAN:          app.Applicant.PAN,
			AnnualIncome: app.Applicant.AnnualIncome,
			Email:        app.Applicant.Email,
			Phone:        app.Applicant.Phone,
			Profession: ProfessionInput{
				Type:    string(app.Applicant.Profession.Type),
				Company: app.Applicant.Profession.Company,
			},
			Address: AddressInput{
				Line1:      app.Applicant.Address.Line1,
				Line2:      app.Applicant.Address.Line2,
				City:       app.Applicant.Address.City,
				State:      app.Applicant.Address.State,
				PostalCode: app.Applicant.Address.PostalCode,
			},
		},
		StatusHistory: toEventDTOs(app.Events),
		CreatedAt:     app.CreatedAt,
		UpdatedAt:     app.UpdatedAt,
	}
	if issued != nil {
		dto.Card = &CardDTO{
			CardID:       issued.CardID,
			MaskedNumber: issued.MaskedNumber(),
			Network:      string(issued.Network),
			CreditLimit:  issued.CreditLimit,
			ExpiryMonth:  issued.ExpiryMonth,
			ExpiryYear:   issued.ExpiryYear,
			Status:       string(issued.Status),
			IssuedAt:     issued.IssuedAt,
		}
	}
	return dto
}
