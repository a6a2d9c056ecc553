// Package mongostore хранит снимки графиков дашборда в MongoDB.
//
// Снимок дохода лежит в коллекции "charts", снимок счётчиков - в "barCharts".
// Названия отелей и имена клиентов хранятся значениями, а не ключами документа,
// поэтому точки и знак доллара в них допустимы.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/magabrotheeeer/staycation/internal/models"
)

const (
	trendCollection = "charts"
	barCollection   = "barCharts"
)

// ErrNotFound возвращается, если снимок с таким ID не найден.
var ErrNotFound = errors.New("chart not found")

// Store реализует хранилище снимков поверх базы MongoDB.
type Store struct {
	client *mongo.Client
	trends *mongo.Collection
	bars   *mongo.Collection
}

// Connect подключается к MongoDB по uri и проверяет соединение.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	const op = "mongostore.Connect"
	if uri == "" {
		return nil, fmt.Errorf("%s: empty connection uri", op)
	}

	opts := options.Client().ApplyURI(uri).
		SetMaxPoolSize(20).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}
	return New(client, database), nil
}

// New создаёт Store поверх уже подключённого клиента.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client: client,
		trends: db.Collection(trendCollection),
		bars:   db.Collection(barCollection),
	}
}

// Close отключается от MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type dayIncome struct {
	Date   string  `bson:"date"`
	Income float64 `bson:"income"`
}

type hotelIncome struct {
	Hotel string      `bson:"hotel"`
	Days  []dayIncome `bson:"days"`
}

type trendDoc struct {
	ID        string        `bson:"_id"`
	Dates     []string      `bson:"dates"`
	StartDate *time.Time    `bson:"start_date,omitempty"`
	EndDate   *time.Time    `bson:"end_date,omitempty"`
	Data      []hotelIncome `bson:"data"`
	CreatedAt time.Time     `bson:"created_at"`
}

type entityCount struct {
	Name  string `bson:"name"`
	Count int    `bson:"count"`
}

type barDoc struct {
	ID        string        `bson:"_id"`
	Axis      string        `bson:"axis"`
	Target    string        `bson:"target"`
	Data      []entityCount `bson:"data"`
	CreatedAt time.Time     `bson:"created_at"`
}

// SaveTrend проверяет и сохраняет снимок дохода, возвращая его ID.
func (s *Store) SaveTrend(ctx context.Context, rec models.TrendRecord) (string, error) {
	const op = "mongostore.SaveTrend"
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	doc := trendDoc{
		ID:        uuid.NewString(),
		Dates:     rec.Dates,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
		Data:      make([]hotelIncome, 0, len(rec.Data)),
		CreatedAt: time.Now().UTC(),
	}
	if doc.Dates == nil {
		doc.Dates = []string{}
	}
	for hotel, byDate := range rec.Data {
		days := make([]dayIncome, 0, len(byDate))
		for date, income := range byDate {
			days = append(days, dayIncome{Date: date, Income: income})
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
		doc.Data = append(doc.Data, hotelIncome{Hotel: hotel, Days: days})
	}

	if _, err := s.trends.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return doc.ID, nil
}

// GetTrend читает снимок дохода по ID.
func (s *Store) GetTrend(ctx context.Context, id string) (models.TrendRecord, error) {
	const op = "mongostore.GetTrend"
	var doc trendDoc
	if err := s.trends.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return models.TrendRecord{}, mapError(op, err)
	}

	rec := models.TrendRecord{
		ID:        doc.ID,
		Dates:     doc.Dates,
		StartDate: utcDate(doc.StartDate),
		EndDate:   utcDate(doc.EndDate),
		Data:      make(models.HotelDateIncome, len(doc.Data)),
		CreatedAt: doc.CreatedAt,
	}
	for _, h := range doc.Data {
		byDate := make(map[string]float64, len(h.Days))
		for _, d := range h.Days {
			byDate[d.Date] = d.Income
		}
		rec.Data[h.Hotel] = byDate
	}
	return rec, nil
}

// SaveBar проверяет и сохраняет снимок счётчиков, возвращая его ID.
func (s *Store) SaveBar(ctx context.Context, rec models.BarRecord) (string, error) {
	const op = "mongostore.SaveBar"
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	doc := barDoc{
		ID:        uuid.NewString(),
		Axis:      string(rec.Axis),
		Target:    rec.Target,
		Data:      make([]entityCount, 0, len(rec.Data)),
		CreatedAt: time.Now().UTC(),
	}
	for name, count := range rec.Data {
		doc.Data = append(doc.Data, entityCount{Name: name, Count: count})
	}
	sort.Slice(doc.Data, func(i, j int) bool { return doc.Data[i].Name < doc.Data[j].Name })

	if _, err := s.bars.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return doc.ID, nil
}

// GetBar читает снимок счётчиков по ID.
func (s *Store) GetBar(ctx context.Context, id string) (models.BarRecord, error) {
	const op = "mongostore.GetBar"
	var doc barDoc
	if err := s.bars.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return models.BarRecord{}, mapError(op, err)
	}

	rec := models.BarRecord{
		ID:        doc.ID,
		Axis:      models.Axis(doc.Axis),
		Target:    doc.Target,
		Data:      make(models.BarCounts, len(doc.Data)),
		CreatedAt: doc.CreatedAt,
	}
	for _, e := range doc.Data {
		rec.Data[e.Name] = e.Count
	}
	return rec, nil
}

func mapError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// utcDate возвращает дату в UTC: драйвер декодирует время в локальной зоне процесса.
func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
