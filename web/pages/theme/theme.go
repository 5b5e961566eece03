// Package theme holds the two static style tables the page switches between.
package theme

import "solrview/models"

// Slot names one styled element of the page
type Slot string

const (
	AppContainer     Slot = "appContainer"
	Header           Slot = "header"
	Button           Slot = "button"
	InputContainer   Slot = "inputContainer"
	InputWrapper     Slot = "inputWrapper"
	Input            Slot = "input"
	ResultsContainer Slot = "resultsContainer"
	ResultCard       Slot = "resultCard"
	ResultTitle      Slot = "resultTitle"
	NoResults        Slot = "noResults"
	Suggestions      Slot = "suggestions"
	SuggestionItem   Slot = "suggestionItem"
	Icon             Slot = "icon"
	Footer           Slot = "footer"
	FooterText       Slot = "footerText"
)

// StyleTable maps slots to inline CSS declarations
type StyleTable map[Slot]string

// Style returns the declarations for slot, empty when the table has none
func (t StyleTable) Style(slot Slot) string {
	return t[slot]
}

const (
	appLayout = "font-family:'Roboto', sans-serif; display:flex; flex-direction:column; " +
		"justify-content:center; align-items:center; min-height:100vh; padding:20px;"
	buttonLayout = "padding:12px 25px; color:#fff; border:none; border-radius:5px; " +
		"cursor:pointer; transition:all 0.3s ease; font-size:16px;"
	inputLayout = "width:100%; padding:14px 20px; margin:10px 0; border-radius:5px; " +
		"font-size:16px; outline:none; transition:0.3s ease; box-sizing:border-box;"
	gridLayout = "width:100%; max-width:800px; display:grid; gap:20px; " +
		"grid-template-columns:1fr 1fr 1fr; justify-content:center;"
	cardLayout = "border-radius:8px; padding:20px; cursor:pointer; " +
		"transition:transform 0.3s ease, box-shadow 0.3s ease, background 0.3s ease;"
	listLayout = "position:absolute; left:0; right:0; z-index:10; margin:0; padding:0; " +
		"list-style:none; border-radius:5px; max-height:240px; overflow-y:auto;"
)

// Light is the default table of the classic variant
var Light = StyleTable{
	AppContainer:     "background-color:#f7f9fc; color:#333; " + appLayout,
	Header:           "text-align:center; margin-bottom:30px;",
	Button:           "background-color:#007bff; " + buttonLayout,
	InputContainer:   "margin-bottom:40px; display:flex; flex-direction:column; align-items:center; width:100%; max-width:500px;",
	InputWrapper:     "position:relative; margin-bottom:15px; width:100%;",
	Input:            "border:1px solid #ddd; " + inputLayout,
	ResultsContainer: gridLayout,
	ResultCard:       "background-color:#fff; box-shadow:0 4px 12px rgba(0, 0, 0, 0.1); " + cardLayout,
	ResultTitle:      "color:#0056b3; font-size:1.6rem; margin-bottom:10px;",
	NoResults:        "text-align:center; font-size:18px; color:#888;",
	Suggestions:      "background-color:#fff; border:1px solid #ddd; " + listLayout,
	SuggestionItem:   "padding:10px 20px; cursor:pointer; color:#333;",
	Icon:             "position:absolute; top:50%; right:10px; transform:translateY(-50%); color:#007bff; font-size:18px;",
	Footer:           "background-color:#333; color:#fff; text-align:center; padding:15px; margin-top:40px; width:100%;",
	FooterText:       "font-size:14px; margin:0;",
}

// Dark is the toggled table, and the only one in the suggest variant
var Dark = StyleTable{
	AppContainer:     "background-color:#121212; color:#eaeaea; " + appLayout,
	Header:           "text-align:center; margin-bottom:30px;",
	Button:           "background-color:#6200ea; " + buttonLayout,
	InputContainer:   "margin-bottom:40px; display:flex; flex-direction:column; align-items:center; width:100%; max-width:500px;",
	InputWrapper:     "position:relative; margin-bottom:15px; width:100%;",
	Input:            "border:1px solid #444; background-color:#333; color:#eaeaea; " + inputLayout,
	ResultsContainer: gridLayout,
	ResultCard:       "background-color:#1e1e1e; box-shadow:0 4px 12px rgba(0, 0, 0, 0.2); " + cardLayout,
	ResultTitle:      "color:#bb86fc; font-size:1.6rem; margin-bottom:10px;",
	NoResults:        "text-align:center; font-size:18px; color:#aaa;",
	Suggestions:      "background-color:#1e1e1e; border:1px solid #444; " + listLayout,
	SuggestionItem:   "padding:10px 20px; cursor:pointer; color:#eaeaea;",
	Icon:             "position:absolute; top:50%; right:10px; transform:translateY(-50%); color:#bb86fc; font-size:18px;",
	Footer:           "background-color:#333; color:#eaeaea; text-align:center; padding:15px; margin-top:40px; width:100%;",
	FooterText:       "font-size:14px; margin:0;",
}

// For returns the table for t
func For(t models.Theme) StyleTable {
	if t == models.ThemeDark {
		return Dark
	}
	return Light
}

// BodyClass tags the body so the stylesheet can apply hover rules per theme
func BodyClass(t models.Theme) string {
	return "theme-" + string(t)
}
