package catalog

import (
	"context"
	"time"

	"waw-esim/internal/model"
	"waw-esim/internal/simulate"

	"github.com/rs/zerolog"
)

// Simulated round-trip times of the fabricated backend.
const (
	planListLatency      = 800 * time.Millisecond
	paymentMethodLatency = 500 * time.Millisecond
)

// staticProvider serves a fixed catalogue behind a simulated network delay.
type staticProvider struct {
	plans         []model.Plan
	methods       []model.PaymentMethod
	latencyFactor float64
	logger        zerolog.Logger
}

// NewStaticProvider creates the fixed WAW Telecom catalogue provider.
// latencyFactor scales the simulated delays; 0 disables them.
func NewStaticProvider(latencyFactor float64, logger zerolog.Logger) Provider {
	return &staticProvider{
		plans:         defaultPlans(),
		methods:       defaultPaymentMethods(),
		latencyFactor: latencyFactor,
		logger:        logger.With().Str("provider", "catalog").Logger(),
	}
}

// ListPlans returns every purchasable plan.
func (p *staticProvider) ListPlans(ctx context.Context) ([]model.Plan, error) {
	if err := simulate.Wait(ctx, planListLatency, p.latencyFactor); err != nil {
		return nil, err
	}

	plans := make([]model.Plan, len(p.plans))
	copy(plans, p.plans)

	p.logger.Debug().Int("count", len(plans)).Msg("plans listed")
	return plans, nil
}

// GetPlan returns a single plan by ID.
func (p *staticProvider) GetPlan(ctx context.Context, id string) (*model.Plan, error) {
	if err := simulate.Wait(ctx, paymentMethodLatency, p.latencyFactor); err != nil {
		return nil, err
	}

	for _, plan := range p.plans {
		if plan.ID == id {
			found := plan
			return &found, nil
		}
	}

	p.logger.Debug().Str("plan_id", id).Msg("plan not found")
	return nil, model.ErrPlanNotFound
}

// ListPaymentMethods returns the payment rails offered at checkout.
func (p *staticProvider) ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	if err := simulate.Wait(ctx, paymentMethodLatency, p.latencyFactor); err != nil {
		return nil, err
	}

	methods := make([]model.PaymentMethod, len(p.methods))
	copy(methods, p.methods)

	p.logger.Debug().Int("count", len(methods)).Msg("payment methods listed")
	return methods, nil
}

// defaultPlans is the WAW Telecom eSIM catalogue. Prices are FCFA.
func defaultPlans() []model.Plan {
	return []model.Plan{
		{
			ID:       "umrah-sa-1gb",
			Name:     "Forfait Umrah",
			Country:  "Arabie Saoudite",
			Region:   "Moyen-Orient",
			Data:     "1GB",
			DataGB:   1,
			Duration: 7,
			Price:    2999,
			Currency: "FCFA",
			Coverage: []string{"Arabie Saoudite", "La Mecque", "Médine"},
			Features: []string{
				"Activation instantanée",
				"Valable 7 jours",
				"Support 24/7",
				"Pas de frais d'itinérance",
			},
			Popular: true,
		},
		{
			ID:       "europe-5gb",
			Name:     "Europe Voyage",
			Country:  "Europe",
			Region:   "Europe",
			Data:     "5GB",
			DataGB:   5,
			Duration: 30,
			Price:    8500,
			Currency: "FCFA",
			Coverage: []string{"France", "Allemagne", "Espagne", "Italie", "Belgique"},
			Features: []string{
				"5G disponible",
				"Valable 30 jours",
				"Rechargeable",
				"Partage de connexion",
			},
		},
		{
			ID:       "usa-3gb",
			Name:     "USA Business",
			Country:  "États-Unis",
			Region:   "Amérique du Nord",
			Data:     "3GB",
			DataGB:   3,
			Duration: 14,
			Price:    12500,
			Currency: "FCFA",
			Coverage: []string{"États-Unis", "Porto Rico"},
			Features: []string{
				"Réseau 5G",
				"Valable 14 jours",
				"Appels locaux inclus",
				"SMS inclus",
			},
		},
		{
			ID:       "africa-2gb",
			Name:     "Afrique Connect",
			Country:  "Afrique",
			Region:   "Afrique",
			Data:     "2GB",
			DataGB:   2,
			Duration: 30,
			Price:    6500,
			Currency: "FCFA",
			Coverage: []string{"Maroc", "Tunisie", "Côte d'Ivoire", "Ghana", "Nigeria"},
			Features: []string{
				"Couverture multi-pays",
				"Valable 30 jours",
				"Support en français",
				"Activation immédiate",
			},
		},
		{
			ID:       "global-10gb",
			Name:     "Global Premium",
			Country:  "Mondial",
			Region:   "Mondial",
			Data:     "10GB",
			DataGB:   10,
			Duration: 30,
			Price:    25000,
			Currency: "FCFA",
			Coverage: []string{"Plus de 150 pays"},
			Features: []string{
				"Couverture mondiale",
				"Valable 30 jours",
				"Priority support",
				"Rechargeable",
				"Hotspot inclus",
			},
			Discount:      15,
			OriginalPrice: 29500,
		},
		{
			ID:       "asia-4gb",
			Name:     "Asie Voyage",
			Country:  "Asie",
			Region:   "Asie",
			Data:     "4GB",
			DataGB:   4,
			Duration: 21,
			Price:    15500,
			Currency: "FCFA",
			Coverage: []string{"Japon", "Corée du Sud", "Singapour", "Thaïlande", "Malaisie"},
			Features: []string{
				"Réseau haute vitesse",
				"Valable 21 jours",
				"Support multilingue",
				"Apps sociales illimitées",
			},
		},
	}
}

// defaultPaymentMethods lists the payment rails available in Senegal.
func defaultPaymentMethods() []model.PaymentMethod {
	return []model.PaymentMethod{
		{
			ID:        "orange_money",
			Name:      "Orange Money",
			Type:      model.PaymentTypeMobileMoney,
			Provider:  "Orange",
			Icon:      "🟠",
			Supported: true,
		},
		{
			ID:        "wave",
			Name:      "Wave",
			Type:      model.PaymentTypeMobileMoney,
			Provider:  "Wave",
			Icon:      "🌊",
			Supported: true,
		},
		{
			ID:        "free_money",
			Name:      "Free Money",
			Type:      model.PaymentTypeMobileMoney,
			Provider:  "Free",
			Icon:      "🔵",
			Supported: true,
		},
		{
			ID:        "visa_card",
			Name:      "Carte Visa",
			Type:      model.PaymentTypeCard,
			Provider:  "Visa",
			Icon:      "💳",
			Supported: true,
			Fees:      2.5,
		},
		{
			ID:        "mastercard",
			Name:      "Mastercard",
			Type:      model.PaymentTypeCard,
			Provider:  "Mastercard",
			Icon:      "💳",
			Supported: true,
			Fees:      2.5,
		},
		{
			ID:        "bank_transfer",
			Name:      "Virement bancaire",
			Type:      model.PaymentTypeBankTransfer,
			Provider:  "Bank",
			Icon:      "🏦",
			Supported: true,
		},
	}
}
