package mongodb

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tennis-league/internal/domain/city"
	"github.com/riskibarqy/tennis-league/internal/domain/interest"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidObjectID = errors.New("invalid object id")

type cityDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Slug     string             `bson:"slug"`
	Name     string             `bson:"name"`
	State    string             `bson:"state"`
	Timezone string             `bson:"timezone"`
}

type seasonConfigDocument struct {
	RegistrationStart *time.Time `bson:"registrationStart"`
	RegistrationEnd   *time.Time `bson:"registrationEnd"`
	StartDate         *time.Time `bson:"startDate"`
	EndDate           *time.Time `bson:"endDate"`
}

type leagueDocument struct {
	ID           primitive.ObjectID   `bson:"_id"`
	Slug         string               `bson:"slug"`
	Name         string               `bson:"name"`
	CityID       primitive.ObjectID   `bson:"cityId"`
	Season       string               `bson:"season"`
	Level        string               `bson:"level"`
	Status       string               `bson:"status"`
	SeasonConfig seasonConfigDocument `bson:"seasonConfig"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

type interestDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	LeagueID  primitive.ObjectID `bson:"leagueId"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func objectID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(ErrInvalidObjectID, "%q", hex)
	}
	return oid, nil
}

func toCityDocument(item city.City) (cityDocument, error) {
	oid, err := objectID(item.ID)
	if err != nil {
		return cityDocument{}, err
	}
	return cityDocument{
		ID:       oid,
		Slug:     item.Slug,
		Name:     item.Name,
		State:    item.State,
		Timezone: item.Timezone,
	}, nil
}

func (d cityDocument) toDomain() city.City {
	return city.City{
		ID:       d.ID.Hex(),
		Slug:     d.Slug,
		Name:     d.Name,
		State:    d.State,
		Timezone: d.Timezone,
	}
}

func toLeagueDocument(item league.League) (leagueDocument, error) {
	oid, err := objectID(item.ID)
	if err != nil {
		return leagueDocument{}, errors.Wrap(err, "league id")
	}
	cityOID, err := objectID(item.CityID)
	if err != nil {
		return leagueDocument{}, errors.Wrap(err, "city id")
	}

	return leagueDocument{
		ID:     oid,
		Slug:   item.Slug,
		Name:   item.Name,
		CityID: cityOID,
		Season: item.Season,
		Level:  item.Level,
		Status: string(item.Status),
		SeasonConfig: seasonConfigDocument{
			RegistrationStart: utcPtr(item.SeasonConfig.RegistrationStart),
			RegistrationEnd:   utcPtr(item.SeasonConfig.RegistrationEnd),
			StartDate:         utcPtr(item.SeasonConfig.StartDate),
			EndDate:           utcPtr(item.SeasonConfig.EndDate),
		},
		CreatedAt: item.CreatedAt.UTC(),
		UpdatedAt: item.UpdatedAt.UTC(),
	}, nil
}

func (d leagueDocument) toDomain() league.League {
	return league.League{
		ID:     d.ID.Hex(),
		Slug:   d.Slug,
		Name:   d.Name,
		CityID: d.CityID.Hex(),
		Season: d.Season,
		Level:  d.Level,
		Status: league.Status(d.Status),
		SeasonConfig: league.SeasonConfig{
			RegistrationStart: d.SeasonConfig.RegistrationStart,
			RegistrationEnd:   d.SeasonConfig.RegistrationEnd,
			StartDate:         d.SeasonConfig.StartDate,
			EndDate:           d.SeasonConfig.EndDate,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toInterestDocument(item interest.Interest) (interestDocument, error) {
	oid, err := objectID(item.ID)
	if err != nil {
		return interestDocument{}, errors.Wrap(err, "interest id")
	}
	leagueOID, err := objectID(item.LeagueID)
	if err != nil {
		return interestDocument{}, errors.Wrap(err, "league id")
	}
	return interestDocument{
		ID:        oid,
		LeagueID:  leagueOID,
		Name:      item.Name,
		Email:     interest.NormalizeEmail(item.Email),
		Phone:     item.Phone,
		CreatedAt: item.CreatedAt.UTC(),
	}, nil
}

func (d interestDocument) toDomain() interest.Interest {
	return interest.Interest{
		ID:        d.ID.Hex(),
		LeagueID:  d.LeagueID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		CreatedAt: d.CreatedAt,
	}
}

func utcPtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	t := v.UTC()
	return &t
}
