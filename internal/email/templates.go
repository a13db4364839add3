package email

import "fmt"

// FormatCents renders minor units as a dollar amount.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func invoiceMail(msg InvoiceMessage, reminder bool) (string, string) {
	subject := fmt.Sprintf("Invoice %s from %s", msg.InvoiceNumber, msg.OrgName)
	intro := "A new invoice has been issued to you."
	if reminder {
		subject = "Reminder: " + subject
		intro = "This is a reminder that the invoice below is still outstanding."
	}
	body := fmt.Sprintf("Hi %s,\n\n%s\n\nInvoice: %s\nAmount due: %s\nDue date: %s\n",
		msg.TenantName, intro, msg.InvoiceNumber, FormatCents(msg.AmountDue), msg.DueDate)
	if msg.Link != "" {
		body += "\nView it online: " + msg.Link + "\n"
	}
	return subject, body + "\n" + msg.OrgName + "\n"
}

func portalInviteMail(name, orgName string) (string, string) {
	subject := fmt.Sprintf("%s invited you to the tenant portal", orgName)
	body := fmt.Sprintf("Hi %s,\n\n%s has invited you to the tenant portal, where you can "+
		"view invoices, make payments and submit maintenance requests.\n", name, orgName)
	return subject, body
}

func applicationInviteMail(name, orgName, link string) (string, string) {
	if name == "" {
		name = "there"
	}
	subject := fmt.Sprintf("Apply to rent with %s", orgName)
	body := fmt.Sprintf("Hi %s,\n\n%s has invited you to submit a rental application.\n\n"+
		"Start here: %s\n\nThis link is personal; please do not share it.\n", name, orgName, link)
	return subject, body
}
