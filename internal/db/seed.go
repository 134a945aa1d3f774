package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seedTables lists tables in delete order (children first).
var seedTables = []string{
	"interactions", "user_blocks", "posts", "profile_tags", "user_settings",
	"reputations", "escort_profiles", "agency_profiles", "client_profiles", "users",
}

var (
	seedLocations = []string{"Madrid", "Barcelona", "Valencia", "Sevilla", "Bilbao"}
	seedServices  = []string{"dinner", "travel", "massage", "events", "companionship"}
	seedLanguages = []string{"es", "en", "fr", "pt", "it"}
	seedTypes     = []string{InteractionView, InteractionView, InteractionView, InteractionLike, InteractionFavorite, InteractionMessage}
)

var seedWeights = map[string]float64{
	InteractionView:     1,
	InteractionLike:     2,
	InteractionFavorite: 3,
	InteractionMessage:  3,
}

// reset clears every seeded table. Compatible with both MySQL and SQLite
// (sequence reset is dialect specific).
func reset(db *gorm.DB) error {
	for _, table := range seedTables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range seedTables {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		for _, table := range seedTables {
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}
	return nil
}

// SeedTestData resets the database and populates it with demo marketplace data.
//
// Behavior:
//  1. Clears every ranking-related table.
//  2. Creates 30 users (12 escorts, 6 agencies, 12 clients) with hashed
//     passwords, type records, reputation and settings rows.
//  3. Adds posts, service/language tags, a few blocks and ~300 interactions
//     spread over the last 10 days.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	if err := reset(db); err != nil {
		return err
	}
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var ids []uint64
	for i := 1; i <= 30; i++ {
		userType := UserTypeClient
		switch {
		case i <= 12:
			userType = UserTypeEscort
		case i <= 18:
			userType = UserTypeAgency
		}

		lastActive := now.Add(-time.Duration(r.Intn(24*40)) * time.Hour)
		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			FirstName:    fmt.Sprintf("Name%d", i),
			Bio:          fmt.Sprintf("Demo profile number %d", i),
			Location:     seedLocations[r.Intn(len(seedLocations))],
			UserType:     userType,
			IsActive:     true,
			ProfileViews: int64(r.Intn(500)),
			LastActiveAt: &lastActive,
			CreatedAt:    now.Add(-time.Duration(r.Intn(24*90)) * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		ids = append(ids, user.ID)

		if err := seedTypeRecord(db, r, &user); err != nil {
			return err
		}

		rep := Reputation{
			UserID:              user.ID,
			OverallScore:        float64(20 + r.Intn(80)),
			TrustScore:          float64(30 + r.Intn(70)),
			ProfileCompleteness: float64(40 + r.Intn(61)),
		}
		if err := db.Create(&rep).Error; err != nil {
			return fmt.Errorf("failed to seed reputation: %w", err)
		}

		settings := DefaultSettings(user.ID)
		settings.ShowInSearch = r.Intn(10) > 0
		if err := db.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}

		for p := 0; p < r.Intn(5); p++ {
			post := Post{AuthorID: user.ID, Title: fmt.Sprintf("Post %d by %s", p+1, user.Username), IsActive: true}
			if err := db.Create(&post).Error; err != nil {
				return fmt.Errorf("failed to seed post: %w", err)
			}
		}
	}
	log.Printf("Seeded %d users.", len(ids))

	// --- Blocks: a handful of random directed edges ---
	for i := 0; i < 5; i++ {
		blocker, blocked := ids[r.Intn(len(ids))], ids[r.Intn(len(ids))]
		if blocker == blocked {
			continue
		}
		db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&UserBlock{BlockerID: blocker, BlockedID: blocked, Reason: "seed"})
	}

	// --- Interactions (~300) ---
	counter := 0
	for _, actorID := range ids {
		for j := 0; j < 10; j++ {
			target := ids[r.Intn(len(ids))]
			if target == actorID {
				continue
			}
			kind := seedTypes[r.Intn(len(seedTypes))]
			ev := Interaction{
				ActorID:      actorID,
				TargetUserID: &target,
				Type:         kind,
				Weight:       seedWeights[kind],
				CreatedAt:    now.Add(-time.Duration(r.Intn(24*10*60)) * time.Minute),
				DeviceType:   "web",
				Source:       "seed",
			}
			if err := db.Create(&ev).Error; err != nil {
				return fmt.Errorf("failed to seed interaction: %w", err)
			}
			counter++
		}
	}
	log.Printf("Seeded %d interactions.", counter)

	return nil
}

func seedTypeRecord(db *gorm.DB, r *rand.Rand, user *User) error {
	switch user.UserType {
	case UserTypeEscort:
		age := 18 + r.Intn(30)
		escort := EscortProfile{UserID: user.ID, Age: &age, Rating: float64(r.Intn(51)) / 10, IsVerified: r.Intn(2) == 0}
		if err := db.Create(&escort).Error; err != nil {
			return fmt.Errorf("failed to seed escort: %w", err)
		}
		tags := []ProfileTag{
			{UserID: user.ID, Kind: TagService, Value: seedServices[r.Intn(len(seedServices))]},
			{UserID: user.ID, Kind: TagLanguage, Value: seedLanguages[r.Intn(len(seedLanguages))]},
		}
		return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error
	case UserTypeAgency:
		agency := AgencyProfile{UserID: user.ID, Name: user.Username + " agency", Rating: float64(r.Intn(51)) / 10, IsVerified: r.Intn(2) == 0}
		return db.Create(&agency).Error
	default:
		return db.Create(&ClientProfile{UserID: user.ID}).Error
	}
}

// SeedMinimalTestData wipes the DB and inserts a small deterministic dataset
// anchored at now, for repeatable service and handler tests.
//
// Dataset:
//   - 1 client1: the usual requester; has LIKEd 3.
//   - 2 ana (ESCORT, verified, 25, Madrid, dinner+massage, es+en, online): discovery 80, overall 70.
//   - 3 bea (ESCORT, 32, Barcelona, dinner, es): discovery 60, overall 90, 300 views.
//   - 4 luxe (AGENCY, verified, Madrid): discovery 70, overall 50.
//   - 5 carla (ESCORT): hidden from search and discovery, discovery 95.
//   - 6 dana (ESCORT): banned.
//   - 7 eva (ESCORT): blocked by client1.
//   - 8 client2 (CLIENT).
//   - 9 fina (ESCORT): has blocked client1.
func SeedMinimalTestData(db *gorm.DB, now time.Time) error {
	if err := reset(db); err != nil {
		return err
	}

	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}
	age := func(v int) *int { return &v }

	users := []User{
		{ID: 1, Username: "client1", Email: "c1@test.com", PasswordHash: "x", UserType: UserTypeClient, IsActive: true, LastActiveAt: ago(0)},
		{ID: 2, Username: "ana", Email: "ana@test.com", PasswordHash: "x", FirstName: "Ana", Bio: "Dinner dates in Madrid", Location: "Madrid", UserType: UserTypeEscort, IsActive: true, ProfileViews: 100, LastActiveAt: ago(5 * time.Minute)},
		{ID: 3, Username: "bea", Email: "bea@test.com", PasswordHash: "x", FirstName: "Beatriz", Location: "Barcelona", UserType: UserTypeEscort, IsActive: true, ProfileViews: 300, LastActiveAt: ago(2 * time.Hour)},
		{ID: 4, Username: "luxe", Email: "luxe@test.com", PasswordHash: "x", LastName: "Agency", Location: "Madrid", UserType: UserTypeAgency, IsActive: true, ProfileViews: 50, LastActiveAt: ago(24 * time.Hour)},
		{ID: 5, Username: "carla", Email: "carla@test.com", PasswordHash: "x", Location: "Madrid", UserType: UserTypeEscort, IsActive: true, LastActiveAt: ago(0)},
		{ID: 6, Username: "dana", Email: "dana@test.com", PasswordHash: "x", Location: "Madrid", UserType: UserTypeEscort, IsActive: true, IsBanned: true, LastActiveAt: ago(0)},
		{ID: 7, Username: "eva", Email: "eva@test.com", PasswordHash: "x", Location: "Madrid", UserType: UserTypeEscort, IsActive: true, LastActiveAt: ago(0)},
		{ID: 8, Username: "client2", Email: "c2@test.com", PasswordHash: "x", UserType: UserTypeClient, IsActive: true, LastActiveAt: ago(time.Hour)},
		{ID: 9, Username: "fina", Email: "fina@test.com", PasswordHash: "x", Location: "Madrid", UserType: UserTypeEscort, IsActive: true, LastActiveAt: ago(0)},
	}
	for i := range users {
		users[i].CreatedAt = now.Add(-60 * 24 * time.Hour)
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	escorts := []EscortProfile{
		{UserID: 2, Age: age(25), Rating: 4.8, IsVerified: true},
		{UserID: 3, Age: age(32), Rating: 4.1},
		{UserID: 5, Age: age(28), Rating: 4.5},
		{UserID: 6, Age: age(30), Rating: 3.0},
		{UserID: 7, Age: age(22), Rating: 4.0},
		{UserID: 9, Age: age(27), Rating: 4.2},
	}
	if err := db.Create(&escorts).Error; err != nil {
		return err
	}
	if err := db.Create(&AgencyProfile{UserID: 4, Name: "Luxe", Rating: 4.0, IsVerified: true}).Error; err != nil {
		return err
	}
	clients := []ClientProfile{{UserID: 1}, {UserID: 8}}
	if err := db.Create(&clients).Error; err != nil {
		return err
	}

	tags := []ProfileTag{
		{UserID: 2, Kind: TagService, Value: "dinner"},
		{UserID: 2, Kind: TagService, Value: "massage"},
		{UserID: 2, Kind: TagLanguage, Value: "es"},
		{UserID: 2, Kind: TagLanguage, Value: "en"},
		{UserID: 3, Kind: TagService, Value: "dinner"},
		{UserID: 3, Kind: TagLanguage, Value: "es"},
	}
	if err := db.Create(&tags).Error; err != nil {
		return err
	}

	discovery := map[uint64]float64{1: 30, 2: 80, 3: 60, 4: 70, 5: 95, 6: 99, 7: 90, 8: 40, 9: 85}
	overall := map[uint64]float64{2: 70, 3: 90, 4: 50}
	var reps []Reputation
	for id := uint64(1); id <= 9; id++ {
		reps = append(reps, Reputation{UserID: id, DiscoveryScore: discovery[id], OverallScore: overall[id], ProfileCompleteness: 50})
	}
	if err := db.Create(&reps).Error; err != nil {
		return err
	}

	hidden := DefaultSettings(5)
	hidden.ShowInSearch = false
	hidden.ShowInDiscovery = false
	if err := db.Create(&hidden).Error; err != nil {
		return err
	}

	blocks := []UserBlock{
		{BlockerID: 1, BlockedID: 7, Reason: "test"},
		{BlockerID: 9, BlockedID: 1, Reason: "test"},
	}
	if err := db.Create(&blocks).Error; err != nil {
		return err
	}

	target := uint64(3)
	like := Interaction{ActorID: 1, TargetUserID: &target, Type: InteractionLike, Weight: 2, CreatedAt: now.Add(-time.Hour), Source: "test"}
	return db.Create(&like).Error
}
