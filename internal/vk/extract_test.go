package vk

import "testing"

const samplePost = `14.06 | Концерт у моря
Приглашаем всех на набережную!
Начало 18:00 - 22:00
📍 Светлогорск, променад ➡️ вход свободный
#концерт #музыка`

func TestExtractEvent(t *testing.T) {
	e := ExtractEvent(samplePost, "2025")
	if e == nil {
		t.Fatal("expected an event, got nil")
	}

	if e.Date != "2025-06-14" {
		t.Errorf("expected date 2025-06-14, got %s", e.Date)
	}
	if e.Title != "Концерт у моря" {
		t.Errorf("expected title without date prefix, got %q", e.Title)
	}
	if e.Location != "Светлогорск, променад" {
		t.Errorf("expected location cut at the arrow, got %q", e.Location)
	}
	if e.Text != samplePost {
		t.Error("expected the full post text to be preserved")
	}
	if e.ID == "" {
		t.Error("expected an ID to be assigned")
	}
}

func TestExtractEventAppendsCity(t *testing.T) {
	post := "20.07 | Лекция\n📍 ул. Профессора Баранова 34"
	e := ExtractEvent(post, "2025")
	if e == nil {
		t.Fatal("expected an event, got nil")
	}
	if e.Location != "ул. Профессора Баранова 34, Калининград" {
		t.Errorf("expected city appended, got %q", e.Location)
	}
}

func TestExtractEventKeepsNamedTown(t *testing.T) {
	post := "20.07 | Экскурсия\n📍 Зеленоградск, Курортный проспект"
	e := ExtractEvent(post, "2025")
	if e == nil {
		t.Fatal("expected an event, got nil")
	}
	if e.Location != "Зеленоградск, Курортный проспект" {
		t.Errorf("city should not be appended twice, got %q", e.Location)
	}
}

func TestExtractEventTextualLocationMarker(t *testing.T) {
	post := "05.09 | Кинопоказ\nМесто: Дом искусств"
	e := ExtractEvent(post, "2025")
	if e == nil {
		t.Fatal("expected an event, got nil")
	}
	if e.Location != "Дом искусств, Калининград" {
		t.Errorf("unexpected location %q", e.Location)
	}
	if e.Date != "2025-09-05" {
		t.Errorf("expected date 2025-09-05, got %s", e.Date)
	}
}

func TestExtractEventRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty post", ""},
		{"no date", "Концерт\n📍 Калининград"},
		{"no location", "14.06 | Концерт\nприходите все"},
		{"month out of range", "14.13 | Концерт\n📍 Калининград"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if e := ExtractEvent(tt.text, "2025"); e != nil {
				t.Errorf("expected nil, got %+v", e)
			}
		})
	}
}

func TestExtractEventFallbackTitle(t *testing.T) {
	post := "Большой фестиваль\nуже 14.06 на острове\n📍 Калининград, остров Канта"
	e := ExtractEvent(post, "2025")
	if e == nil {
		t.Fatal("expected an event, got nil")
	}
	// The line carrying the date becomes the title even without the
	// "DD.MM |" prefix.
	if e.Title != "уже 14.06 на острове" {
		t.Errorf("unexpected title %q", e.Title)
	}
}

func TestExtractEvents(t *testing.T) {
	posts := []Post{
		{Text: samplePost},
		{Text: "просто пост без события"},
		{Text: "01.08 | Ярмарка\n📍 Гурьевск"},
	}

	events := ExtractEvents(posts, "2025")
	if len(events) != 2 {
		t.Fatalf("expected 2 events from 3 posts, got %d", len(events))
	}
	if events[1].Date != "2025-08-01" {
		t.Errorf("expected 2025-08-01, got %s", events[1].Date)
	}
}
