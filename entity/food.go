package entity

import "time"

// Food is a catalog record. Calories and protein are per BaseAmount of BaseUnit.
type Food struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null;index" json:"name"`
	BaseAmount float64   `gorm:"not null;check:chk_foods_base_amount,base_amount > 0" json:"baseAmount"`
	BaseUnit   Unit      `gorm:"type:varchar(16);not null" json:"baseUnit"`
	Calories   float64   `gorm:"not null;check:chk_foods_calories,calories >= 0" json:"calories"`
	Protein    *float64  `json:"protein"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (f Food) Portion() Portion {
	return Portion{
		Name:       f.Name,
		BaseAmount: f.BaseAmount,
		BaseUnit:   f.BaseUnit,
		Calories:   f.Calories,
		Protein:    f.Protein,
	}
}
