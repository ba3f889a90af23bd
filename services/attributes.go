package services

import (
	"fmt"
	"strings"

	"autoapply/browser"
)

// collectedAttributes is the fixed, ordered set of DOM attributes inspected on
// every control. Order matters: Explain reports the first matching entry.
var collectedAttributes = []string{
	"name",
	"id",
	"placeholder",
	"aria-label",
	"aria-labelledby",
	"type",
	"autocomplete",
	"class",
	"data-test",
	"data-testid",
	"data-qa",
	"formcontrolname",
}

// Derived bag keys populated by the collector beyond raw attributes.
const (
	bagKeyTag    = "tag"
	bagKeyLabel  = "label"
	bagKeyParent = "parent"
)

// bagOrder is the canonical iteration order over a bag, raw attributes first.
var bagOrder = append(append([]string{}, collectedAttributes...), bagKeyLabel, bagKeyParent)

// JS snippets evaluated against elements. Kept as named constants so fakes in
// tests can dispatch on them exactly.
const (
	parentTextJS = `el => {
		const p = el.parentElement;
		if (!p) return "";
		const t = (p.innerText || "").trim();
		return t.length > 0 && t.length <= 120 ? t : "";
	}`

	ancestorLabelJS = `el => {
		const lbl = el.closest("label");
		if (lbl) return (lbl.innerText || "").trim();
		const p = el.parentElement;
		return p ? (p.innerText || "").trim() : "";
	}`

	forceVisibleJS = `el => {
		el.style.display = "block";
		el.style.visibility = "visible";
		el.style.opacity = "1";
		el.removeAttribute("hidden");
		return "";
	}`
)

// AttributeBag holds every inspected attribute of one control. Absent
// attributes are present with an empty value, never missing.
type AttributeBag map[string]string

// Identifier returns the most descriptive handle for audit notes, mirroring
// how a human would name the control.
func (b AttributeBag) Identifier() string {
	for _, key := range []string{"name", "id", "placeholder", "aria-label"} {
		if v := b[key]; v != "" {
			return v
		}
	}
	if v := b[bagKeyLabel]; v != "" {
		return v
	}
	return "unknown"
}

// signature identifies a control across steps so the step controller can tell
// whether a new page rendered anything it has not seen before.
func (b AttributeBag) signature() string {
	return fmt.Sprintf("%s|%s|%s|%s", b[bagKeyTag], b["name"], b["id"], b["placeholder"])
}

// CollectAttributes builds the attribute bag for one element. Every read is
// best-effort: a failing attribute read yields an empty string and collection
// itself never fails. Visibility is deliberately not part of the bag.
func CollectAttributes(page browser.Page, el browser.Element) AttributeBag {
	bag := make(AttributeBag, len(bagOrder)+1)
	for _, name := range collectedAttributes {
		v, err := el.GetAttribute(name)
		if err != nil {
			v = ""
		}
		bag[name] = v
	}

	tag, err := el.TagName()
	if err != nil {
		tag = ""
	}
	bag[bagKeyTag] = strings.ToLower(tag)

	bag[bagKeyLabel] = labelForText(page, bag["id"])
	parent, err := el.Evaluate(parentTextJS)
	if err != nil {
		parent = ""
	}
	bag[bagKeyParent] = parent
	return bag
}

// labelForText resolves the text of an explicitly associated <label for=...>.
func labelForText(page browser.Page, id string) string {
	if id == "" || strings.ContainsAny(id, `'"\`) {
		return ""
	}
	labels, err := page.Query(fmt.Sprintf("label[for='%s']", id))
	if err != nil || len(labels) == 0 {
		return ""
	}
	text, err := labels[0].InnerText()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// IsVisible reports whether an element is currently interactable. Detached or
// errored elements count as not visible; acting on them is a silent skip.
func IsVisible(el browser.Element) bool {
	visible, err := el.IsVisible()
	return err == nil && visible
}
