package managed_test

import (
	"context"
	"fmt"
	"log"

	"github.com/cheyinl/eway-managed/managed"
)

func ExampleNewClient() {
	client, err := managed.NewClient("87654321", "test@eway.com.au", "test123", true)
	if err != nil {
		log.Fatal(err)
	}

	id, err := client.CreateCustomer(context.Background(), managed.Fields{
		"title":           "Mr.",
		"first_name":      "Joe",
		"last_name":       "Bloggs",
		"country":         "au",
		"email":           "joe@example.com",
		"cc_number":       "4444333322221111",
		"cc_name_on_card": "Joe Bloggs",
		"cc_expiry_month": "12",
		"cc_expiry_year":  "27",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("managed customer:", id)
}

func ExampleClient_ProcessPayment() {
	client, err := managed.NewClient("87654321", "test@eway.com.au", "test123", true)
	if err != nil {
		log.Fatal(err)
	}

	cents, err := managed.ParseAmount("10.00")
	if err != nil {
		log.Fatal(err)
	}
	receipt, err := client.ProcessPayment(context.Background(), "9876543211000", cents, managed.PaymentOptions{
		InvoiceReference:   "INV-1",
		InvoiceDescription: "Flat white",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("status:", receipt.Get("ewayTrxnStatus"))
}
