package content

// UI holds the interface strings of one language.
type UI struct {
	SiteLabel         string
	DocsLabel         string
	GetStartedLabel   string
	NavOverview       string
	NavAbout          string
	NavDocsHome       string
	SwitchTo          string
	HomeTitle         string
	HomeText          string
	HomeCTA           string
	PagesCount        string
	AboutTitle        string
	AboutText         string
	AboutPoints       []string
	DocsContent       string
	DocsHomeTitle     string
	DocsHomeText      string
	DocsCategoryTitle string
	DocsOnThisPage    string
	DocsPrevious      string
	DocsNext          string
	DocsLastUpdated   string
	ChooseLanguage    string
	DetectingLanguage string
	NotFound          string
	NotFoundText      string
}

type CategoryID string

const (
	Fundamentals CategoryID = "fundamentals"
	Guides       CategoryID = "guides"
	Reference    CategoryID = "reference"
)

type Category struct {
	ID          CategoryID
	Title       string
	Description string
}

var uiByLanguage = map[Language]UI{
	English: {
		SiteLabel:         "BetterHelper Docs",
		DocsLabel:         "Docs",
		GetStartedLabel:   "Get Started",
		NavOverview:       "Overview",
		NavAbout:          "About",
		NavDocsHome:       "Docs Home",
		SwitchTo:          "Switch to",
		HomeTitle:         "Documentation",
		HomeText:          "Comprehensive reference for BetterHelper Framework: routing, SSR, islands, JSX runtime, and CLI.",
		HomeCTA:           "Open documentation",
		PagesCount:        "pages",
		AboutTitle:        "About",
		AboutText:         "This docs site is built on BetterHelper itself, without React.",
		AboutPoints: []string{
			"Framework-native JSX runtime",
			"File-based routing and nested layouts",
			"SSR modes: full, islands, no-hydration",
			"Tailwind CSS v4 with shadcn-style zinc visuals",
		},
		DocsContent:       "Documentation",
		DocsHomeTitle:     "Documentation Overview",
		DocsHomeText:      "Pick a section to start. Fundamentals are recommended for first-time users.",
		DocsCategoryTitle: "Categories",
		DocsOnThisPage:    "On this page",
		DocsPrevious:      "Previous",
		DocsNext:          "Next",
		DocsLastUpdated:   "Updated",
		ChooseLanguage:    "Choose language",
		DetectingLanguage: "Detecting system language and redirecting automatically...",
		NotFound:          "404",
		NotFoundText:      "Page not found.",
	},
	Russian: {
		SiteLabel:         "Документация BetterHelper",
		DocsLabel:         "Документация",
		GetStartedLabel:   "Быстрый старт",
		NavOverview:       "Обзор",
		NavAbout:          "О проекте",
		NavDocsHome:       "Главная docs",
		SwitchTo:          "Переключить на",
		HomeTitle:         "Документация",
		HomeText:          "Полная документация BetterHelper Framework: роутинг, SSR, islands, JSX runtime и CLI.",
		HomeCTA:           "Открыть документацию",
		PagesCount:        "страниц",
		AboutTitle:        "О проекте",
		AboutText:         "Этот docs-сайт работает на самом BetterHelper, без React.",
		AboutPoints: []string{
			"Нативный JSX runtime фреймворка",
			"File-based роутинг и nested layouts",
			"SSR режимы: full, islands, no-hydration",
			"Tailwind CSS v4 и zinc-стилизация в духе shadcn/ui",
		},
		DocsContent:       "Справка",
		DocsHomeTitle:     "Обзор документации",
		DocsHomeText:      "Выберите раздел. Для первого знакомства начните с Fundamentals.",
		DocsCategoryTitle: "Категории",
		DocsOnThisPage:    "На этой странице",
		DocsPrevious:      "Назад",
		DocsNext:          "Далее",
		DocsLastUpdated:   "Обновлено",
		ChooseLanguage:    "Выберите язык",
		DetectingLanguage: "Определяем язык системы и перенаправляем...",
		NotFound:          "404",
		NotFoundText:      "Страница не найдена.",
	},
}

var categoriesByLanguage = map[Language][]Category{
	English: {
		{ID: Fundamentals, Title: "Fundamentals", Description: "Core concepts, setup, and project structure."},
		{ID: Guides, Title: "Guides", Description: "Practical tutorials for common tasks."},
		{ID: Reference, Title: "Reference", Description: "API details and command reference."},
	},
	Russian: {
		{ID: Fundamentals, Title: "Fundamentals", Description: "Базовые концепции, установка и структура проекта."},
		{ID: Guides, Title: "Guides", Description: "Практические гайды для типовых задач."},
		{ID: Reference, Title: "Reference", Description: "Справочник API и команд."},
	},
}
