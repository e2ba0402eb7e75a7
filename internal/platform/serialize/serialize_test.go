package serialize

import (
	"reflect"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("parse object id: %v", err)
	}
	return id
}

func TestForTransport_Nil(t *testing.T) {
	t.Parallel()

	if got := ForTransport(nil); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	var ptr *time.Time
	if got := ForTransport(ptr); got != nil {
		t.Fatalf("expected nil for nil pointer, got %#v", got)
	}
}

func TestForTransport_DateRoundTrip(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+7", 7*60*60)
	instant := time.Date(2025, 3, 14, 9, 26, 53, 589793000, loc)

	got, ok := ForTransport(instant).(string)
	if !ok {
		t.Fatalf("expected string, got %T", ForTransport(instant))
	}
	if got != "2025-03-14T02:26:53.589793Z" {
		t.Fatalf("unexpected date string %q", got)
	}

	parsed, err := time.Parse(time.RFC3339Nano, got)
	if err != nil {
		t.Fatalf("parse serialized date: %v", err)
	}
	if !parsed.Equal(instant) {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, instant)
	}
}

func TestForTransport_DocumentDateTime(t *testing.T) {
	t.Parallel()

	instant := time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	got := ForTransport(primitive.NewDateTimeFromTime(instant))
	if got != "2025-01-02T03:04:05.006Z" {
		t.Fatalf("unexpected value %#v", got)
	}
}

func TestForTransport_NestedDocument(t *testing.T) {
	t.Parallel()

	leagueID := mustObjectID(t, "65f1c2a9e4b0a1b2c3d4e5f6")
	cityID := mustObjectID(t, "65f1c2a9e4b0a1b2c3d4e5f7")
	playerID := mustObjectID(t, "65f1c2a9e4b0a1b2c3d4e5f8")
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	doc := primitive.M{
		"_id":    leagueID,
		"name":   "Spring Singles",
		"cityId": cityID,
		"seasonConfig": primitive.M{
			"registrationStart": start,
			"endDate":           nil,
		},
		"players": primitive.A{playerID, "65f1c2a9e4b0a1b2c3d4e5f9", 3},
		"fee":     45.5,
		"open":    true,
	}

	got, ok := ForTransport(doc).(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", ForTransport(doc))
	}

	want := map[string]any{
		"_id":    "65f1c2a9e4b0a1b2c3d4e5f6",
		"name":   "Spring Singles",
		"cityId": "65f1c2a9e4b0a1b2c3d4e5f7",
		"seasonConfig": map[string]any{
			"registrationStart": "2025-01-01T00:00:00Z",
			"endDate":           nil,
		},
		"players": []any{"65f1c2a9e4b0a1b2c3d4e5f8", "65f1c2a9e4b0a1b2c3d4e5f9", 3},
		"fee":     45.5,
		"open":    true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected result:\n got=%#v\nwant=%#v", got, want)
	}

	if _, still := doc["_id"].(primitive.ObjectID); !still {
		t.Fatalf("input document was mutated")
	}
}

func TestForTransport_PlainHexStringUntouched(t *testing.T) {
	t.Parallel()

	const hex = "65f1c2a9e4b0a1b2c3d4e5f6"
	got := ForTransport(map[string]any{"note": hex})
	if got.(map[string]any)["note"] != hex {
		t.Fatalf("plain string changed: %#v", got)
	}
}

func TestForTransport_OrderedDocumentKeepsKeyOrder(t *testing.T) {
	t.Parallel()

	doc := primitive.D{
		{Key: "_id", Value: mustObjectID(t, "65f1c2a9e4b0a1b2c3d4e5f6")},
		{Key: "status", Value: "active"},
		{Key: "createdAt", Value: time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)},
	}

	got, ok := ForTransport(doc).(Object)
	if !ok {
		t.Fatalf("expected Object, got %T", ForTransport(doc))
	}
	if keys := got.Keys(); !reflect.DeepEqual(keys, []string{"_id", "status", "createdAt"}) {
		t.Fatalf("unexpected key order %v", keys)
	}

	raw, err := sonic.Marshal(got)
	if err != nil {
		t.Fatalf("marshal object: %v", err)
	}
	const want = `{"_id":"65f1c2a9e4b0a1b2c3d4e5f6","status":"active","createdAt":"2024-12-01T10:00:00Z"}`
	if string(raw) != want {
		t.Fatalf("unexpected json %s", raw)
	}
}

func TestForTransport_Struct(t *testing.T) {
	t.Parallel()

	type season struct {
		EndDate *time.Time `bson:"endDate"`
	}
	type leagueDoc struct {
		ID     primitive.ObjectID `bson:"_id"`
		Name   string             `bson:"name"`
		Season season             `bson:"seasonConfig"`
	}

	end := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	got, ok := ForTransport(leagueDoc{
		ID:     mustObjectID(t, "65f1c2a9e4b0a1b2c3d4e5f6"),
		Name:   "Summer Mixed",
		Season: season{EndDate: &end},
	}).(Object)
	if !ok {
		t.Fatalf("expected Object for struct input")
	}

	if id, _ := got.Get("_id"); id != "65f1c2a9e4b0a1b2c3d4e5f6" {
		t.Fatalf("unexpected _id %#v", id)
	}
	seasonValue, _ := got.Get("seasonConfig")
	nested, ok := seasonValue.(Object)
	if !ok {
		t.Fatalf("expected nested Object, got %T", seasonValue)
	}
	if endValue, _ := nested.Get("endDate"); endValue != "2025-05-01T00:00:00Z" {
		t.Fatalf("unexpected endDate %#v", endValue)
	}
}

func TestForTransport_StructKeepsNanoseconds(t *testing.T) {
	t.Parallel()

	type event struct {
		At time.Time `bson:"at"`
	}

	at := time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.UTC)
	direct := ForTransport(at)
	got := ForTransport(event{At: at}).(Object)
	nested, _ := got.Get("at")

	if nested != direct || nested != "2025-01-02T03:04:05.123456789Z" {
		t.Fatalf("nested=%#v direct=%#v", nested, direct)
	}
	parsed, err := time.Parse(TimeLayout, nested.(string))
	if err != nil {
		t.Fatalf("parse nested date: %v", err)
	}
	if !parsed.Equal(at) {
		t.Fatalf("re-parsed %v, want %v", parsed, at)
	}
}

func TestForTransport_StructTags(t *testing.T) {
	t.Parallel()

	type audit struct {
		CreatedBy string `bson:"createdBy"`
	}
	type doc struct {
		Name     string         `bson:"name"`
		Note     string         `bson:"note,omitempty"`
		Secret   string         `bson:"-"`
		Level    int            `bson:",omitempty"`
		Audit    audit          `bson:",inline"`
		Extra    map[string]any `bson:",inline"`
		Untagged bool
		internal string
	}

	got := ForTransport(doc{
		Name:     "Austin Spring",
		Secret:   "hidden",
		Level:    3,
		Audit:    audit{CreatedBy: "ops"},
		Extra:    map[string]any{"zeta": 1, "alpha": 2},
		Untagged: true,
		internal: "skip",
	}).(Object)

	want := Object{
		{Key: "name", Value: "Austin Spring"},
		{Key: "level", Value: 3},
		{Key: "createdBy", Value: "ops"},
		{Key: "alpha", Value: 2},
		{Key: "zeta", Value: 1},
		{Key: "untagged", Value: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected document %#v", got)
	}
}

func TestForTransport_NilContainersStayNil(t *testing.T) {
	t.Parallel()

	var (
		m   map[string]any
		pm  primitive.M
		a   []any
		pa  primitive.A
		d   primitive.D
		obj Object
	)
	for name, value := range map[string]any{
		"map": m, "primitive.M": pm, "slice": a, "primitive.A": pa, "primitive.D": d, "Object": obj,
	} {
		if got := ForTransport(value); got != nil {
			t.Fatalf("%s: expected nil, got %#v", name, got)
		}
	}

	got := ForTransport(map[string]any{"tags": []any(nil)}).(map[string]any)
	if got["tags"] != nil {
		t.Fatalf("expected nested nil slice to stay nil, got %#v", got["tags"])
	}
}

func TestForTransport_TopLevelIDAlwaysString(t *testing.T) {
	t.Parallel()

	got := ForTransport(map[string]any{"_id": 42, "name": "legacy"}).(map[string]any)
	if got["_id"] != "42" {
		t.Fatalf("expected string id, got %#v", got["_id"])
	}
}

func TestForTransport_TypedContainers(t *testing.T) {
	t.Parallel()

	ids := []primitive.ObjectID{mustObjectID(t, "65f1c2a9e4b0a1b2c3d4e5f6")}
	got := ForTransport(map[string][]primitive.ObjectID{"ids": ids})
	want := map[string]any{"ids": []any{"65f1c2a9e4b0a1b2c3d4e5f6"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected result %#v", got)
	}
}

func TestForTransport_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []any{
		nil,
		"text",
		12,
		time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		primitive.M{
			"_id":   mustObjectID(t, "65f1c2a9e4b0a1b2c3d4e5f6"),
			"dates": primitive.A{time.Now(), nil},
		},
		primitive.D{{Key: "a", Value: primitive.D{{Key: "b", Value: time.Now()}}}},
		[]string{"x", "y"},
	}

	for i, in := range inputs {
		once := ForTransport(in)
		twice := ForTransport(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("input %d not idempotent:\n once=%#v\ntwice=%#v", i, once, twice)
		}
	}
}

func TestForTransport_ShapePreserved(t *testing.T) {
	t.Parallel()

	in := []any{primitive.M{"a": 1, "b": primitive.A{1, 2, 3}}, primitive.A{}, "c"}
	got, ok := ForTransport(in).([]any)
	if !ok || len(got) != len(in) {
		t.Fatalf("unexpected top-level shape %#v", got)
	}
	first, ok := got[0].(map[string]any)
	if !ok || len(first) != 2 {
		t.Fatalf("unexpected nested map %#v", got[0])
	}
	if inner, ok := first["b"].([]any); !ok || len(inner) != 3 {
		t.Fatalf("unexpected nested slice %#v", first["b"])
	}
	if empty, ok := got[1].([]any); !ok || len(empty) != 0 {
		t.Fatalf("unexpected empty slice %#v", got[1])
	}
}
