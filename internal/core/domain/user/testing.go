package user

import (
	c "authfront/internal/core/domain/common"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if input.Email.IsPresent && u.Email == input.Email {
			return u, ErrUserAlreadyExists
		}
		if input.Phone.IsPresent && u.Phone == input.Phone {
			return u, ErrUserAlreadyExists
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: input.PasswordHash,
		Name:         input.Name,
		Image:        input.Image,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by email")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email.IsPresent && u.Email.Value == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmailForUpdate(ctx context.Context, email c.Email) (u User, err error) {
	return r.GetByEmail(ctx, email)
}

func (r *FakeUserRepository) GetByEmailOrPhone(
	ctx context.Context,
	email c.Optional[c.Email],
	phone c.Optional[c.Phone],
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by email or phone")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if email.IsPresent && u.Email.IsPresent && u.Email.Value == email.Value {
			return u, nil
		}
		if phone.IsPresent && u.Phone.IsPresent && u.Phone.Value == phone.Value {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, id ID, password PasswordHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordHash = c.NewOptional(password, true)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) UpsertOAuthUser(ctx context.Context, input UpsertOAuthUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not upsert user %v", input.Email)
	}
	r.lock.Lock()
	for ix, u := range r.Users {
		if u.Email.IsPresent && u.Email.Value == input.Email {
			if !input.LinkExisting || u.PasswordHash.IsPresent {
				r.lock.Unlock()
				return u, ErrOAuthAccountNotLinked
			}
			if !u.Name.IsPresent {
				r.Users[ix].Name = input.Name
			}
			if !u.Image.IsPresent {
				r.Users[ix].Image = input.Image
			}
			r.lock.Unlock()
			return r.Users[ix], nil
		}
	}
	r.lock.Unlock()
	return r.Create(ctx, CreateUserInput{
		Email:     c.NewOptional(input.Email, true),
		Name:      input.Name,
		Image:     input.Image,
		CreatedAt: input.CreatedAt,
	})
}

type FakePasswordResetTokenRepository struct {
	Tokens      []PasswordResetToken
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetTokenRepository() *FakePasswordResetTokenRepository {
	return &FakePasswordResetTokenRepository{}
}

func (r *FakePasswordResetTokenRepository) Create(
	ctx context.Context,
	input CreatePasswordResetTokenInput,
) (t PasswordResetToken, err error) {
	if r.ReturnError {
		return t, fmt.Errorf("could not create password reset token for user %d", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	t = PasswordResetToken{
		ID:        NewPasswordResetTokenID(),
		UserID:    input.UserID,
		TokenHash: input.TokenHash,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: input.CreatedAt,
	}
	r.Tokens = append(r.Tokens, t)
	return t, nil
}

func (r *FakePasswordResetTokenRepository) DeleteByUserID(ctx context.Context, userID ID) (int64, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not delete password reset tokens of user %d", userID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	kept := make([]PasswordResetToken, 0, len(r.Tokens))
	for _, t := range r.Tokens {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	deleted := int64(len(r.Tokens) - len(kept))
	r.Tokens = kept
	return deleted, nil
}

func (r *FakePasswordResetTokenRepository) GetByTokenHashForUpdate(
	ctx context.Context,
	hash PasswordResetTokenHash,
) (t PasswordResetToken, err error) {
	if r.ReturnError {
		return t, fmt.Errorf("could not get password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, t := range r.Tokens {
		if t.TokenHash == hash {
			return t, nil
		}
	}
	return t, ErrPasswordResetTokenNotFound
}

func (r *FakePasswordResetTokenRepository) Delete(ctx context.Context, id PasswordResetTokenID) error {
	if r.ReturnError {
		return fmt.Errorf("could not delete password reset token %v", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, t := range r.Tokens {
		if t.ID == id {
			r.Tokens = append(r.Tokens[:ix], r.Tokens[ix+1:]...)
			return nil
		}
	}
	return ErrPasswordResetTokenNotFound
}

func (r *FakePasswordResetTokenRepository) CountByUserID(userID ID) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	count := 0
	for _, t := range r.Tokens {
		if t.UserID == userID {
			count++
		}
	}
	return count
}

// FakePasswordResetSecretGenerator hands out Secrets in order and then
// numbered fallbacks once they are exhausted.
type FakePasswordResetSecretGenerator struct {
	Secrets     []PasswordResetSecret
	ReturnError bool
	generated   int
	lock        sync.Mutex
}

func NewFakePasswordResetSecretGenerator(secrets ...string) *FakePasswordResetSecretGenerator {
	g := &FakePasswordResetSecretGenerator{}
	for _, s := range secrets {
		g.Secrets = append(g.Secrets, PasswordResetSecret(s))
	}
	return g
}

func (g *FakePasswordResetSecretGenerator) GeneratePasswordResetSecret() (PasswordResetSecret, error) {
	if g.ReturnError {
		return "", fmt.Errorf("could not generate password reset secret")
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	ix := g.generated
	g.generated++
	if ix < len(g.Secrets) {
		return g.Secrets[ix], nil
	}
	return PasswordResetSecret(fmt.Sprintf("fake-secret-%d", ix)), nil
}

type FakePasswordResetLinkSender struct {
	Sent        []SendPasswordResetLinkInput
	WasLogged   bool
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetLinkSender() *FakePasswordResetLinkSender {
	return &FakePasswordResetLinkSender{}
}

func (s *FakePasswordResetLinkSender) SendPasswordResetLink(
	ctx context.Context,
	input SendPasswordResetLinkInput,
) (SendResult, error) {
	if s.ReturnError {
		return SendResult{}, fmt.Errorf("could not send password reset link")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, input)
	return SendResult{WasLogged: s.WasLogged}, nil
}

func (s *FakePasswordResetLinkSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakePasswordResetLinkSender) LastSent() SendPasswordResetLinkInput {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

// FakeSessionTokenIssuer encodes the user ID into the token in plain text.
type FakeSessionTokenIssuer struct {
	Now         func() time.Time
	ReturnError bool
	Issued      map[SessionToken]Session
	lock        sync.Mutex
}

func NewFakeSessionTokenIssuer(now func() time.Time) *FakeSessionTokenIssuer {
	return &FakeSessionTokenIssuer{Now: now, Issued: make(map[SessionToken]Session)}
}

func (i *FakeSessionTokenIssuer) IssueSessionToken(u User, maxAge time.Duration) (SessionToken, error) {
	if i.ReturnError {
		return "", fmt.Errorf("could not issue session token")
	}
	i.lock.Lock()
	defer i.lock.Unlock()
	token := SessionToken(fmt.Sprintf("session-%d-%d", u.ID, len(i.Issued)))
	i.Issued[token] = Session{UserID: u.ID, Phone: u.Phone, ExpiresAt: i.Now().Add(maxAge)}
	return token, nil
}

func (i *FakeSessionTokenIssuer) ParseSessionToken(token SessionToken) (s Session, err error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	s, ok := i.Issued[token]
	if !ok || i.Now().After(s.ExpiresAt) {
		return s, ErrInvalidSessionToken
	}
	return s, nil
}

type FakeOAuthProvider struct {
	ProviderName OAuthProviderName
	Profile      OAuthProfile
	ReturnError  bool
}

func NewFakeOAuthProvider(name string, profile OAuthProfile) *FakeOAuthProvider {
	return &FakeOAuthProvider{ProviderName: OAuthProviderName(name), Profile: profile}
}

func (p *FakeOAuthProvider) Name() OAuthProviderName {
	return p.ProviderName
}

func (p *FakeOAuthProvider) AuthCodeURL(state string) string {
	return fmt.Sprintf("https://%s.test/authorize?state=%s", p.ProviderName, state)
}

func (p *FakeOAuthProvider) Exchange(ctx context.Context, code string) (OAuthProfile, error) {
	if p.ReturnError {
		return OAuthProfile{}, fmt.Errorf("could not exchange code %q", code)
	}
	return p.Profile, nil
}

type FakeOAuthProviders map[OAuthProviderName]OAuthProvider

func (p FakeOAuthProviders) Get(name OAuthProviderName) (OAuthProvider, bool) {
	provider, ok := p[name]
	return provider, ok
}
