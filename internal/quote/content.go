// Package quote renders a submitted order as the shop's quote request: plain
// text for email, plus PDF and XLSX exports.
package quote

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Simplici0/ggr-quote/internal/catalog"
	"github.com/Simplici0/ggr-quote/internal/order"
	"github.com/Simplici0/ggr-quote/internal/pricing"
)

// Content is the text of a quote request.
type Content struct {
	Subject string
	Body    string
	Lines   []string
}

// Line is one rendered cart row.
type Line struct {
	Index    int
	Name     string
	Quantity int
	Size     string
	Services string
	Amount   string
	Item     order.Item
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ItemLines renders every cart item in order.
func ItemLines(cat *catalog.Catalog, items []order.Item) []Line {
	lines := make([]Line, 0, len(items))
	for i, it := range items {
		l := Line{Index: i + 1, Quantity: it.Quantity, Size: "-", Services: "-", Item: it}
		if it.Type == order.ItemAddon {
			l.Name = "부자재"
			if a, ok := cat.Addon(it.AddonID); ok {
				l.Name = a.Name
			}
		} else {
			l.Name = it.MaterialID
			if m, ok := cat.Material(it.MaterialID); ok {
				l.Name = m.Name
			}
			l.Size = fmt.Sprintf("%sT / %s×%smm",
				pricing.FormatNumber(it.Thickness), pricing.FormatNumber(it.Width), pricing.FormatNumber(it.Length))
			if it.Shape.HasSecondLeg() {
				l.Size = fmt.Sprintf("%sT / %s×%s + %s×%smm (%s)",
					pricing.FormatNumber(it.Thickness), pricing.FormatNumber(it.Width), pricing.FormatNumber(it.Length),
					pricing.FormatNumber(it.Width), pricing.FormatNumber(it.Length2), it.Shape.Label())
			}
			l.Services = pricing.FormatServiceList(cat, it.Services, it.ServiceDetails, true)
		}

		if it.IsCustomPrice {
			l.Amount = "상담 안내"
		} else {
			l.Amount = pricing.FormatWon(it.Total) + "원"
		}
		lines = append(lines, l)
	}
	return lines
}

// Subject is the email subject of a quote request.
func Subject(line catalog.Line, c order.Customer) string {
	tag := "[GGR 견적요청]"
	if line == catalog.LineTop {
		tag = "[GGR 상판 견적요청]"
	}
	name := c.Name
	if name == "" {
		name = "고객명"
	}
	phone := c.Phone
	if phone == "" {
		phone = "연락처"
	}
	return fmt.Sprintf("%s %s (%s)", tag, name, phone)
}

// Build renders the customer block, the item lines and the totals block.
func Build(cat *catalog.Catalog, sub order.Submission) Content {
	c := sub.Customer
	lines := []string{
		"[고객 정보]",
		"이름: " + orDash(c.Name),
		"연락처: " + orDash(c.Phone),
		"이메일: " + orDash(c.Email),
		"요청사항: " + orDash(c.Memo),
		"",
		"[주문 내역]",
	}

	if len(sub.Items) == 0 {
		lines = append(lines, "담긴 항목 없음")
	}
	for _, l := range ItemLines(cat, sub.Items) {
		lines = append(lines, fmt.Sprintf("%d. %s x%d | 크기 %s | 가공 %s | 금액 %s",
			l.Index, l.Name, l.Quantity, l.Size, l.Services, l.Amount))
	}

	lines = append(lines, "", "[합계]")
	lines = append(lines, totalLines(sub.Policy, sub.Summary)...)

	return Content{
		Subject: Subject(sub.Policy.Line, c),
		Body:    strings.Join(lines, "\n"),
		Lines:   lines,
	}
}

func totalLines(p pricing.Policy, s pricing.Summary) []string {
	out := []string{p.MaterialLabel() + ": " + pricing.FormatWon(s.MaterialsTotal) + "원"}
	if p.IncludePackingCost {
		out = append(out, "포장비: "+pricing.FormatWon(s.PackingCost)+"원")
	}
	out = append(out, "총결제금액: "+pricing.FormatWon(s.GrandTotal)+"원")
	if s.CustomItems > 0 {
		out = append(out, "비규격 상담 품목 "+strconv.Itoa(s.CustomItems)+"건 별도")
	}
	out = append(out, fmt.Sprintf("예상무게: %.2fkg", s.TotalWeight))
	return out
}

// TemplateParams are the fields the email template interpolates.
func (c Content) TemplateParams(cust order.Customer) map[string]string {
	return map[string]string{
		"subject":        c.Subject,
		"message":        c.Body,
		"customer_name":  cust.Name,
		"customer_phone": cust.Phone,
		"customer_email": cust.Email,
		"customer_memo":  orDash(cust.Memo),
		"order_lines":    strings.Join(c.Lines, "\n"),
	}
}
