package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"

	"loyalty-hub/pkg/config"
	"loyalty-hub/pkg/database"
	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/persistent"
	"loyalty-hub/services/api/internal/usecase"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	var adminEmail, adminPassword string
	var demo bool
	flag.StringVar(&adminEmail, "admin-email", "admin@loyaltyapp.com", "Admin account email")
	flag.StringVar(&adminPassword, "admin-password", "admin12345", "Admin account password")
	flag.BoolVar(&demo, "demo", true, "Create demo customers with points")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithLevel(cfg.LogLevel, cfg.Environment)
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	policy, err := config.LoadTierPolicy(cfg)
	if err != nil {
		log.Error("Failed to load tier policy: %v", err)
		panic(err)
	}

	userRepo := persistent.NewUserRepository(db)
	customerRepo := persistent.NewCustomerRepository(db)
	loyaltyRepo := persistent.NewLoyaltyRepository(db)
	rewardRepo := persistent.NewRewardRepository(db)
	benefitRepo := persistent.NewTierBenefitRepository(db)
	whatsappRepo := persistent.NewWhatsAppRepository(db)

	tierUseCase := usecase.NewTierUseCase(customerRepo, benefitRepo, policy, nil, log)
	s := &seeder{
		log:          log,
		policy:       policy,
		userRepo:     userRepo,
		benefitRepo:  benefitRepo,
		whatsappRepo: whatsappRepo,
		tiers:        tierUseCase,
		customers:    usecase.NewCustomerUseCase(customerRepo, userRepo, loyaltyRepo, rewardRepo, log),
		rewards:      usecase.NewRewardUseCase(rewardRepo, customerRepo, nil, nil, log),
		loyalty:      usecase.NewLoyaltyUseCase(customerRepo, loyaltyRepo, tierUseCase, nil, cfg, log),
	}

	ctx := context.Background()
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"admin user", func(ctx context.Context) error { return s.seedAdmin(ctx, adminEmail, adminPassword) }},
		{"tier benefits", s.seedTierBenefits},
		{"notification templates", s.seedTemplates},
		{"rewards", s.seedRewards},
	}
	if demo {
		steps = append(steps, struct {
			name string
			run  func(context.Context) error
		}{"demo customers", s.seedCustomers})
	}

	for _, step := range steps {
		log.Info("Seeding %s...", step.name)
		if err := step.run(ctx); err != nil {
			log.Error("Failed to seed %s: %v", step.name, err)
			panic(err)
		}
	}

	log.Info("Database seeded successfully!")
}

type seeder struct {
	log          *logger.Logger
	policy       *config.TierPolicy
	userRepo     persistent.UserRepository
	benefitRepo  persistent.TierBenefitRepository
	whatsappRepo persistent.WhatsAppRepository
	tiers        usecase.TierUseCase
	customers    usecase.CustomerUseCase
	rewards      usecase.RewardUseCase
	loyalty      usecase.LoyaltyUseCase
}

func (s *seeder) seedAdmin(ctx context.Context, email, password string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		s.log.Info("Admin %s already exists, skipping", email)
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &entity.User{
		Name:          "System Administrator",
		Email:         email,
		Phone:         "+10000000000",
		PasswordHash:  string(hash),
		Role:          entity.RoleAdmin,
		Status:        entity.UserStatusActive,
		EmailVerified: true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.log.Info("Created admin: %s", email)
	return nil
}

func (s *seeder) seedTierBenefits(ctx context.Context) error {
	existing, err := s.tiers.ListBenefits(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.log.Info("%d tier benefits already exist, skipping", len(existing))
		return nil
	}

	for _, tier := range entity.Tiers {
		set, ok := s.policy.Benefits[string(tier)]
		if !ok {
			continue
		}

		rows := []entity.TierBenefit{
			{BenefitType: "points_multiplier", BenefitValue: strconv.FormatFloat(set.PointsMultiplier, 'f', -1, 64), Description: "Points earned per purchase are multiplied"},
			{BenefitType: "discount_percentage", BenefitValue: strconv.Itoa(set.DiscountPercentage), Description: "Discount on every purchase"},
		}
		flags := []struct {
			name    string
			enabled bool
			desc    string
		}{
			{"free_shipping", set.FreeShipping, "Free delivery on orders"},
			{"priority_support", set.PrioritySupport, "Dedicated support line"},
			{"exclusive_access", set.ExclusiveAccess, "Early access to new products and events"},
		}
		for _, f := range flags {
			if f.enabled {
				rows = append(rows, entity.TierBenefit{BenefitType: f.name, BenefitValue: "true", Description: f.desc})
			}
		}

		for i := range rows {
			rows[i].Tier = tier
			rows[i].IsActive = true
			rows[i].ValidFrom = time.Now().UTC()
			if err := s.benefitRepo.Create(ctx, &rows[i]); err != nil {
				return fmt.Errorf("failed to create %s benefit %s: %w", tier, rows[i].BenefitType, err)
			}
		}
		s.log.Info("Created %d benefits for %s", len(rows), tier.Title())
	}
	return nil
}

func (s *seeder) seedTemplates(ctx context.Context) error {
	templates := []entity.NotificationTemplate{
		{
			Name:      "birthday_kid",
			Category:  entity.TemplateBirthday,
			Content:   "Happy birthday to {{kid_name}}! Hi {{name}}, celebrate with {{discount}} off using code {{code}}.",
			Variables: []string{"name", "kid_name", "discount", "code"},
			IsDefault: true,
		},
		{
			Name:      "welcome",
			Category:  entity.TemplateWelcome,
			Content:   "Welcome to our loyalty program, {{name}}! Start earning points with every purchase.",
			Variables: []string{"name"},
			IsDefault: true,
		},
		{
			Name:      "bill_receipt",
			Category:  entity.TemplateBill,
			Content:   "Hi {{name}}, thank you for your purchase of {{amount}}. Invoice {{invoice}}.",
			Variables: []string{"name", "amount", "invoice"},
		},
		{
			Name:      "weekend_promo",
			Category:  entity.TemplatePromotion,
			Content:   "{{name}}, earn double points this weekend!",
			Variables: []string{"name"},
		},
	}

	for i := range templates {
		tpl := &templates[i]
		if _, err := s.whatsappRepo.GetTemplateByName(ctx, tpl.Name); err == nil {
			s.log.Info("Template %s already exists, skipping", tpl.Name)
			continue
		}
		tpl.MessageType = entity.MessageText
		tpl.IsActive = true
		if err := s.whatsappRepo.CreateTemplate(ctx, tpl); err != nil {
			return fmt.Errorf("failed to create template %s: %w", tpl.Name, err)
		}
		s.log.Info("Created template: %s", tpl.Name)
	}
	return nil
}

func (s *seeder) seedRewards(ctx context.Context) error {
	rewards := []entity.Reward{
		{Name: "Free Coffee", Description: "Any regular hot drink", PointsRequired: 100, Category: "drinks", StockQuantity: entity.UnlimitedStock, IsFeatured: true},
		{Name: "10% Off Voucher", Description: "One-time discount on your next purchase", PointsRequired: 250, Category: "vouchers", StockQuantity: entity.UnlimitedStock, MaxPerCustomer: 3},
		{Name: "Branded Tote Bag", Description: "Reusable cotton tote", PointsRequired: 400, Category: "merchandise", StockQuantity: 50},
		{Name: "Kids Party Pack", Description: "Party supplies for 10 guests", PointsRequired: 1200, Category: "kids", StockQuantity: 10, IsFeatured: true},
	}

	for _, reward := range rewards {
		found, err := s.rewards.List(ctx, entity.RewardFilter{Search: reward.Name}, entity.Page{Limit: 1})
		if err != nil {
			return err
		}
		if found.Total > 0 {
			s.log.Info("Reward %s already exists, skipping", reward.Name)
			continue
		}
		if _, err := s.rewards.Create(ctx, reward); err != nil {
			return fmt.Errorf("failed to create reward %s: %w", reward.Name, err)
		}
		s.log.Info("Created reward: %s (%d points)", reward.Name, reward.PointsRequired)
	}
	return nil
}

func (s *seeder) seedCustomers(ctx context.Context) error {
	demo := []struct {
		name   string
		email  string
		phone  string
		dob    string
		points int
	}{
		{"Ada Obi", "ada@example.com", "+2348010000001", "1990-05-17", 150},
		{"Bola Ade", "bola@example.com", "+2348010000002", "1985-11-02", 620},
		{"Chidi Eze", "chidi@example.com", "+2348010000003", "1979-01-23", 1340},
	}

	for _, d := range demo {
		dob, _ := time.Parse("2006-01-02", d.dob)
		customer, err := s.customers.Create(ctx, entity.NewCustomer{
			Name:        d.name,
			Email:       d.email,
			Phone:       d.phone,
			Password:    "password123",
			DateOfBirth: &dob,
		})
		if errors.Is(err, errs.ErrConflict) {
			s.log.Info("Customer %s already exists, skipping", d.email)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create customer %s: %w", d.email, err)
		}

		result, err := s.loyalty.AwardPoints(ctx, entity.PointsAward{
			CustomerID:  customer.ID,
			Points:      d.points,
			Source:      entity.SourcePromotion,
			Description: "Welcome bonus",
		})
		if err != nil {
			return fmt.Errorf("failed to award points to %s: %w", d.email, err)
		}
		s.log.Info("Created customer %s with %d points (%s)", d.email, result.Customer.TotalPoints, result.Customer.Tier)
	}
	return nil
}
