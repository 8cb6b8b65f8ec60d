package services

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/MihaiMusteata/url-shortener/internal/models"
	"github.com/google/uuid"
)

const (
	// directReferrer метка для переходов без реферера.
	directReferrer = "Direct"

	histogramDays     = 7
	topReferrersLimit = 10
	recentEventsLimit = 100
)

// DailyClicks количество кликов за один UTC-день.
type DailyClicks struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TopReferrer нормализованный реферер с числом переходов.
type TopReferrer struct {
	Referrer string `json:"referrer"`
	Count    int    `json:"count"`
}

// ClickEvent одно событие перехода в представлении для владельца.
// Сырые реферер и user agent наружу не отдаются.
type ClickEvent struct {
	ID        uuid.UUID `json:"id"`
	ClickedAt time.Time `json:"clickedAt"`
	Referrer  string    `json:"referrer"`
	Ua        string    `json:"ua"`
}

// DetailsView агрегированное представление ссылки с аналитикой по кликам.
type DetailsView struct {
	ID          uuid.UUID `json:"id"`
	Alias       string    `json:"alias"`
	ShortURL    string    `json:"shortUrl"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	QrEnabled   bool      `json:"qrEnabled"`
	QrURL       string    `json:"qrUrl,omitempty"`

	TotalClicks     int64 `json:"totalClicks"`
	UniqueReferrers int   `json:"uniqueReferrers"`

	ClicksLast7Days []DailyClicks `json:"clicksLast7Days"`
	TopReferrers    []TopReferrer `json:"topReferrers"`
	RecentEvents    []ClickEvent  `json:"recentEvents"`
}

// BuildDetails собирает представление из ссылки и полного набора ее кликов.
// Чистая функция: весь набор кликов приходит сразу, никаких ленивых курсоров.
func BuildDetails(link *models.ShortLink, shortURL string, now time.Time) DetailsView {
	view := DetailsView{
		ID:          link.ID,
		Alias:       link.ShortCode,
		ShortURL:    shortURL,
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
		TotalClicks: link.TotalClicks,
	}
	if link.QrCode != nil {
		view.QrEnabled = true
		view.QrURL = link.QrCode.FileURL
	}

	view.ClicksLast7Days = buildHistogram(link.LinkClicks, now)
	view.TopReferrers, view.UniqueReferrers = rankReferrers(link.LinkClicks)
	view.RecentEvents = recentEvents(link.LinkClicks)

	return view
}

// buildHistogram считает клики по дням за окно [сегодня-6 .. сегодня] включительно.
// Всегда ровно 7 корзин по возрастанию даты, пустые дни с нулем.
func buildHistogram(clicks []models.LinkClick, now time.Time) []DailyClicks {
	nowUTC := now.UTC()
	today := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(histogramDays - 1))
	to := today.AddDate(0, 0, 1)

	byDate := make(map[string]int)
	for _, c := range clicks {
		at := c.ClickedAt.UTC()
		if at.Before(from) || !at.Before(to) {
			continue
		}
		byDate[at.Format(time.DateOnly)]++
	}

	histogram := make([]DailyClicks, 0, histogramDays)
	for i := 0; i < histogramDays; i++ {
		day := from.AddDate(0, 0, i).Format(time.DateOnly)
		histogram = append(histogram, DailyClicks{Date: day, Count: byDate[day]})
	}
	return histogram
}

// rankReferrers группирует нормализованные рефереры без учета регистра и возвращает
// топ-10 по убыванию счетчика плюс общее число уникальных. При равных счетчиках
// порядок определяется первым появлением группы, по имени не пересортировываем.
func rankReferrers(clicks []models.LinkClick) ([]TopReferrer, int) {
	counts := make(map[string]int)
	var order []string
	display := make(map[string]string)

	for _, c := range clicks {
		norm := NormalizeReferrer(c.Referer)
		key := strings.ToLower(norm)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
			display[key] = norm
		}
		counts[key]++
	}

	top := make([]TopReferrer, 0, len(order))
	for _, key := range order {
		top = append(top, TopReferrer{Referrer: display[key], Count: counts[key]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > topReferrersLimit {
		top = top[:topReferrersLimit]
	}
	return top, len(order)
}

// recentEvents возвращает до 100 последних кликов по убыванию времени.
func recentEvents(clicks []models.LinkClick) []ClickEvent {
	sorted := make([]models.LinkClick, len(clicks))
	copy(sorted, clicks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ClickedAt.After(sorted[j].ClickedAt)
	})
	if len(sorted) > recentEventsLimit {
		sorted = sorted[:recentEventsLimit]
	}

	events := make([]ClickEvent, 0, len(sorted))
	for _, c := range sorted {
		events = append(events, ClickEvent{
			ID:        c.ID,
			ClickedAt: c.ClickedAt,
			Referrer:  NormalizeReferrer(c.Referer),
			Ua:        SummarizeUserAgent(c.UserAgent),
		})
	}
	return events
}

// NormalizeReferrer сводит сырой реферер к хосту. Пустая строка и все что не удается
// свести к хосту превращается в "Direct".
func NormalizeReferrer(raw string) string {
	if raw == "" {
		return directReferrer
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.IsAbs() && parsed.Hostname() != "" {
		return parsed.Hostname()
	}

	s := raw
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "http://"):
		s = s[len("http://"):]
	case strings.HasPrefix(lower, "https://"):
		s = s[len("https://"):]
	}

	if idx := strings.Index(s, "/"); idx >= 0 {
		s = s[:idx]
	}
	if s == "" {
		return directReferrer
	}
	return s
}

// SummarizeUserAgent сворачивает user agent в строку вида "Chrome • Windows" или
// "Safari • iOS • Mobile". Пустой UA дает "Unknown".
func SummarizeUserAgent(ua string) string {
	if ua == "" {
		return "Unknown"
	}

	u := strings.ToLower(ua)

	var browser string
	switch {
	case strings.Contains(u, "edg/"):
		browser = "Edge"
	case strings.Contains(u, "chrome/"):
		browser = "Chrome"
	case strings.Contains(u, "firefox/"):
		browser = "Firefox"
	case strings.Contains(u, "safari/"):
		browser = "Safari"
	default:
		browser = "Other"
	}

	var os string
	switch {
	case strings.Contains(u, "windows"):
		os = "Windows"
	case strings.Contains(u, "mac os x"):
		os = "macOS"
	case strings.Contains(u, "android"):
		os = "Android"
	case strings.Contains(u, "iphone"), strings.Contains(u, "ipad"):
		os = "iOS"
	case strings.Contains(u, "linux"):
		os = "Linux"
	default:
		os = "Other"
	}

	mobile := strings.Contains(u, "mobile") || os == "Android" || os == "iOS"
	if mobile {
		return browser + " • " + os + " • Mobile"
	}
	return browser + " • " + os
}
