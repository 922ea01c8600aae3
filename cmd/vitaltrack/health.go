package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitaltrack/vitaltrack/client"
)

func newMedsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meds",
		Short: "Manage medications",
	}
	cmd.AddCommand(newMedsListCmd())
	cmd.AddCommand(newMedsAddCmd())
	cmd.AddCommand(newMedsDeleteCmd())
	return cmd
}

func newMedsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List medications",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			meds, err := s.ListMedications(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(meds) == 0 {
				fmt.Fprintln(out, "No medications")
				return nil
			}
			for _, m := range meds {
				state := "active"
				if !m.Active {
					state = "inactive"
				}
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Dosage, m.Frequency, state)
			}
			return nil
		},
	}
}

func newMedsAddCmd() *cobra.Command {
	var req client.MedicationRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a medication",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			med, err := s.CreateMedication(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Medication created: %d - %s\n", med.ID, med.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Medication name (required)")
	cmd.Flags().StringVar(&req.Dosage, "dosage", "", "Dosage, e.g. 10mg (required)")
	cmd.Flags().StringVar(&req.Frequency, "frequency", "", "How often it is taken (required)")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "Start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "End date, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("dosage")
	_ = cmd.MarkFlagRequired("frequency")

	return cmd
}

func newMedsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a medication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := s.DeleteMedication(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Medication %d deleted\n", id)
			return nil
		},
	}
}

func newRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage health records",
	}
	cmd.AddCommand(newRecordsListCmd())
	cmd.AddCommand(newRecordsAddCmd())
	cmd.AddCommand(newRecordsDeleteCmd())
	return cmd
}

func newRecordsListCmd() *cobra.Command {
	var recordType string
	var since time.Duration
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List health records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := client.HealthRecordFilter{Type: client.RecordType(recordType), Limit: limit}
			if since > 0 {
				filter.From = time.Now().Add(-since)
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			records, err := s.ListHealthRecords(ctx, filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No records")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", r.ID, r.RecordedAt.Local().Format("2006-01-02 15:04"), r.Type, reading(r))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&recordType, "type", "", "Only this record type (blood_pressure, blood_sugar, heart_rate, weight)")
	cmd.Flags().DurationVar(&since, "since", 0, "Only records newer than this, e.g. 168h")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of records")

	return cmd
}

func reading(r client.HealthRecord) string {
	if r.Type == client.BloodPressure {
		return fmt.Sprintf("%d/%d %s", r.Systolic, r.Diastolic, r.Unit)
	}
	return fmt.Sprintf("%g %s", r.Value, r.Unit)
}

func newRecordsAddCmd() *cobra.Command {
	var req client.HealthRecordRequest
	var recordType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a reading",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Type = client.RecordType(recordType)

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			rec, err := s.CreateHealthRecord(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Record created: %d - %s %s\n", rec.ID, rec.Type, reading(*rec))
			return nil
		},
	}

	cmd.Flags().StringVar(&recordType, "type", "", "Record type (required)")
	cmd.Flags().Float64Var(&req.Value, "value", 0, "Reading value (all types except blood_pressure)")
	cmd.Flags().IntVar(&req.Systolic, "systolic", 0, "Systolic pressure (blood_pressure)")
	cmd.Flags().IntVar(&req.Diastolic, "diastolic", 0, "Diastolic pressure (blood_pressure)")
	cmd.Flags().StringVar(&req.Unit, "unit", "", "Unit; defaults per type")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newRecordsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a health record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := s.DeleteHealthRecord(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Record %d deleted\n", id)
			return nil
		},
	}
}
