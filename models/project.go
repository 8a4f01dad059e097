package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Investment statuses inside a project's investor list.
const (
	InvestmentPending   = "pending"
	InvestmentCompleted = "completed"
	InvestmentRefunded  = "refunded"
)

// Dispute is an optional sub-record on an investment, set when an investor
// contests a transaction and cleared only by admin resolution.
type Dispute struct {
	Reason   string     `bson:"reason,omitempty" json:"reason,omitempty"`
	Date     *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Resolved bool       `bson:"resolved" json:"resolved"`
}

// Investment is embedded in the parent project's investors array. The payment
// reference doubles as the dedup key for the whole pipeline.
type Investment struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Investor         primitive.ObjectID `bson:"investor" json:"investor"`
	Amount           float64            `bson:"amount" json:"amount"`
	PaymentRef       string             `bson:"payment_ref" json:"paymentRef"`
	InvestedAt       time.Time          `bson:"invested_at" json:"investedAt"`
	ExpectedReturn   float64            `bson:"expected_return,omitempty" json:"expectedReturn,omitempty"`
	RepaymentDueDate *time.Time         `bson:"repayment_due_date,omitempty" json:"repaymentDueDate,omitempty"`
	IsRepaid         bool               `bson:"is_repaid" json:"isRepaid"`
	RepaidAt         *time.Time         `bson:"repaid_at,omitempty" json:"repaidAt,omitempty"`
	FraudFlag        bool               `bson:"fraud_flag" json:"fraudFlag"`
	FraudReasons     []string           `bson:"fraud_reasons" json:"fraudReasons"`
	Dispute          *Dispute           `bson:"dispute,omitempty" json:"dispute,omitempty"`
	Status           string             `bson:"status" json:"status"` // pending, completed, refunded
	IPAddress        string             `bson:"ip_address,omitempty" json:"ipAddress,omitempty"`
}

type Project struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Category        string             `bson:"category" json:"category"`
	Thumbnail       string             `bson:"thumbnail" json:"thumbnail"`
	Pitch           string             `bson:"pitch" json:"pitch"`
	Location        string             `bson:"location" json:"location"`
	Overview        string             `bson:"overview" json:"overview"`
	ProblemSolution string             `bson:"problem_solution" json:"problemSolution"`
	Goal            float64            `bson:"goal" json:"goal"`
	Duration        int                `bson:"duration" json:"duration"` // days
	MinInvestment   float64            `bson:"min_investment" json:"minInvestment"`
	Impact          []string           `bson:"impact" json:"impact"`
	Creator         primitive.ObjectID `bson:"creator" json:"creator"`
	CurrentFunding  float64            `bson:"current_funding" json:"currentFunding"`
	Status          string             `bson:"status" json:"status"`
	Investors       []Investment       `bson:"investors" json:"investors"`
	ReturnRate      float64            `bson:"return_rate" json:"returnRate"`
	RepaymentPeriod int                `bson:"repayment_period" json:"repaymentPeriod"` // months
	CompletedAt     *time.Time         `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// DaysLeft counts whole days until the campaign window closes, never negative.
func (p *Project) DaysLeft(now time.Time) int {
	end := p.CreatedAt.AddDate(0, 0, p.Duration)
	left := int(end.Sub(now).Hours() / 24)
	if left < 0 {
		return 0
	}
	return left
}

// PercentageFunded is capped at 100 so over-funded projects render sanely.
func (p *Project) PercentageFunded() float64 {
	if p.Goal <= 0 {
		return 0
	}
	pct := p.CurrentFunding / p.Goal * 100
	if pct > 100 {
		return 100
	}
	return pct
}
