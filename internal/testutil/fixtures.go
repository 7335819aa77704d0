package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email       string
	displayName string
	password    string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:       fmt.Sprintf("testuser_%s@example.com", suffix),
		displayName: fmt.Sprintf("testuser_%s", suffix),
		password:    "testpassword123",
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"email":       b.email,
		"displayName": b.displayName,
		"password":    b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:          userID,
		Email:       authResp.User.Email,
		DisplayName: authResp.User.DisplayName,
	}

	return user, authResp.AccessToken
}

// CampaignBuilder creates test campaigns with a builder pattern
type CampaignBuilder struct {
	name    string
	dm      *domain.User
	players []*domain.User
}

// NewCampaignBuilder creates a new CampaignBuilder with default values
func NewCampaignBuilder() *CampaignBuilder {
	return &CampaignBuilder{
		name: fmt.Sprintf("Campaign %s", uuid.New().String()[:8]),
	}
}

// WithName sets the campaign name
func (b *CampaignBuilder) WithName(name string) *CampaignBuilder {
	b.name = name
	return b
}

// WithDM sets the campaign DM
func (b *CampaignBuilder) WithDM(user *domain.User) *CampaignBuilder {
	b.dm = user
	return b
}

// WithPlayer adds a player member
func (b *CampaignBuilder) WithPlayer(user *domain.User) *CampaignBuilder {
	b.players = append(b.players, user)
	return b
}

// Build creates the campaign with its DM membership and any player members
func (b *CampaignBuilder) Build(t *testing.T, db *gorm.DB) *domain.Campaign {
	t.Helper()

	if b.dm == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.dm = user
	}

	campaign := &domain.Campaign{
		ID:        uuid.New(),
		Name:      b.name,
		CreatedBy: b.dm.ID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(campaign).Error; err != nil {
		t.Fatalf("failed to create campaign: %v", err)
	}

	members := []*domain.CampaignMember{{
		ID:         uuid.New(),
		CampaignID: campaign.ID,
		UserID:     b.dm.ID,
		Role:       domain.RoleDM,
	}}
	for _, p := range b.players {
		members = append(members, &domain.CampaignMember{
			ID:         uuid.New(),
			CampaignID: campaign.ID,
			UserID:     p.ID,
			Role:       domain.RolePlayer,
		})
	}
	for _, m := range members {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("failed to create campaign member: %v", err)
		}
	}

	return campaign
}

// CharacterBuilder creates test characters
type CharacterBuilder struct {
	campaignID uuid.UUID
	name       string
	kind       domain.CharacterKind
	ownerID    *uuid.UUID
	className  *string
	currentHP  int
}

// NewCharacterBuilder creates a new CharacterBuilder with default values
func NewCharacterBuilder(campaignID uuid.UUID) *CharacterBuilder {
	return &CharacterBuilder{
		campaignID: campaignID,
		name:       fmt.Sprintf("Character %s", uuid.New().String()[:8]),
		kind:       domain.KindPlayer,
		currentHP:  20,
	}
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.name = name
	return b
}

// WithKind sets the character kind
func (b *CharacterBuilder) WithKind(kind domain.CharacterKind) *CharacterBuilder {
	b.kind = kind
	return b
}

// WithOwner sets the owning player
func (b *CharacterBuilder) WithOwner(user *domain.User) *CharacterBuilder {
	b.ownerID = &user.ID
	return b
}

// WithClass sets the class name
func (b *CharacterBuilder) WithClass(name string) *CharacterBuilder {
	b.className = &name
	return b
}

// WithHP sets current HP
func (b *CharacterBuilder) WithHP(hp int) *CharacterBuilder {
	b.currentHP = hp
	return b
}

// Build creates the character in the database
func (b *CharacterBuilder) Build(t *testing.T, db *gorm.DB) *domain.Character {
	t.Helper()

	character := &domain.Character{
		ID:         uuid.New(),
		CampaignID: b.campaignID,
		Name:       b.name,
		Kind:       b.kind,
		OwnerID:    b.ownerID,
		ClassName:  b.className,
		Level:      1,
		CurrentHP:  b.currentHP,
		Stats:      []byte(`{}`),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := db.Create(character).Error; err != nil {
		t.Fatalf("failed to create character: %v", err)
	}

	return character
}

// ItemBuilder creates catalog items
type ItemBuilder struct {
	name             string
	category         domain.ItemCategory
	defaultUses      *int
	classRestriction *string
}

// NewItemBuilder creates a new ItemBuilder with default values
func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{
		name:     fmt.Sprintf("Item %s", uuid.New().String()[:8]),
		category: domain.CategoryItem,
	}
}

// WithName sets the item name
func (b *ItemBuilder) WithName(name string) *ItemBuilder {
	b.name = name
	return b
}

// AsWeapon marks the item as a weapon
func (b *ItemBuilder) AsWeapon() *ItemBuilder {
	b.category = domain.CategoryWeapon
	return b
}

// WithDefaultUses sets the default use count
func (b *ItemBuilder) WithDefaultUses(uses int) *ItemBuilder {
	b.defaultUses = &uses
	return b
}

// WithClassRestriction sets the class restriction
func (b *ItemBuilder) WithClassRestriction(restriction string) *ItemBuilder {
	b.classRestriction = &restriction
	return b
}

// Build creates the item in the database
func (b *ItemBuilder) Build(t *testing.T, db *gorm.DB) *domain.Item {
	t.Helper()

	item := &domain.Item{
		ID:               uuid.New(),
		Name:             b.name,
		Category:         b.category,
		DefaultUses:      b.defaultUses,
		ClassRestriction: b.classRestriction,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	return item
}

// MapBuilder creates game maps
type MapBuilder struct {
	campaignID uuid.UUID
	name       string
	countX     int
	countY     int
}

// NewMapBuilder creates a new MapBuilder with default values
func NewMapBuilder(campaignID uuid.UUID) *MapBuilder {
	return &MapBuilder{
		campaignID: campaignID,
		name:       fmt.Sprintf("Map %s", uuid.New().String()[:8]),
		countX:     domain.DefaultTileCount,
		countY:     domain.DefaultTileCount,
	}
}

// WithName sets the map name
func (b *MapBuilder) WithName(name string) *MapBuilder {
	b.name = name
	return b
}

// WithTileCounts sets the grid dimensions
func (b *MapBuilder) WithTileCounts(countX, countY int) *MapBuilder {
	b.countX = countX
	b.countY = countY
	return b
}

// Build creates the map in the database with an all-null grid
func (b *MapBuilder) Build(t *testing.T, db *gorm.DB) *domain.GameMap {
	t.Helper()

	m := &domain.GameMap{
		ID:         uuid.New(),
		CampaignID: b.campaignID,
		Name:       b.name,
		TileGrid:   domain.EmptyTileGrid(b.countX, b.countY).JSON(),
		TileCountX: b.countX,
		TileCountY: b.countY,
		TileSizeX:  domain.DefaultTileSize,
		TileSizeY:  domain.DefaultTileSize,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := db.Create(m).Error; err != nil {
		t.Fatalf("failed to create map: %v", err)
	}

	return m
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
