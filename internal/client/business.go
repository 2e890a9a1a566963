package client

import (
	"context"

	"github.com/fivetwenty-io/rides/pkg/rides"
)

// BusinessClient implements rides.BusinessClient.
type BusinessClient struct {
	client *Client
}

// TripReceipt implements rides.BusinessClient.TripReceipt.
func (c *BusinessClient) TripReceipt(ctx context.Context, tripID string) (*rides.BusinessReceipt, *rides.Response, error) {
	return fetch[rides.BusinessReceipt](ctx, c.client, "GET", "v1/business/trips/"+tripID+"/receipt", nil)
}

// TripReceiptPDFURL implements rides.BusinessClient.TripReceiptPDFURL.
func (c *BusinessClient) TripReceiptPDFURL(ctx context.Context, tripID string) (*rides.ReceiptPDF, *rides.Response, error) {
	return fetch[rides.ReceiptPDF](ctx, c.client, "GET", "v1/business/trips/"+tripID+"/receipt/pdf_url", nil)
}

// TripInvoiceURLs implements rides.BusinessClient.TripInvoiceURLs.
func (c *BusinessClient) TripInvoiceURLs(ctx context.Context, tripID string) (*rides.InvoiceURLList, *rides.Response, error) {
	return fetch[rides.InvoiceURLList](ctx, c.client, "GET", "v1/business/trips/"+tripID+"/invoice_urls", nil)
}
