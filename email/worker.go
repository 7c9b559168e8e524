package email

import "log"

type EmailJob struct {
	Type string
	Data HermesEmailData
}

type EmailWorker struct {
	Jobs chan EmailJob
	Quit chan bool
}

type EmailWorkerPool struct {
	Jobs    chan EmailJob
	Workers []EmailWorker
}

func HermesEmailWorkerPoolInstance(size int) *EmailWorkerPool {
	jobs := make(chan EmailJob, size)
	workers := make([]EmailWorker, size)

	for i := 0; i < size; i++ {
		workers[i] = EmailWorker{
			Jobs: jobs,
			Quit: make(chan bool),
		}
	}

	return &EmailWorkerPool{Jobs: jobs, Workers: workers}
}

func (pool *EmailWorkerPool) Start() {
	for id, worker := range pool.Workers {
		log.Printf("Email worker %d started\n", id)
		go worker.Start()
	}
}

func (pool *EmailWorkerPool) Stop() {
	for id, worker := range pool.Workers {
		log.Printf("Email worker %d stopped\n", id)
		go worker.Stop()
	}
}

// Enqueue hands a job to the pool. Dispatch is fire-and-forget: delivery
// failures are logged by the worker and never bubble back to the request
// that queued the job.
func (pool *EmailWorkerPool) Enqueue(job EmailJob) {
	pool.Jobs <- job
}

func (w *EmailWorker) Start() {
	go func() {
		for {
			select {
			case job := <-w.Jobs:
				switch job.Type {
				case "shipment_booked":
					log.Printf("HermesEmail: shipment %s booked, notifying sender %s and receiver %s", job.Data.TrackingNumber, job.Data.SenderEmail, job.Data.ReceiverEmail)
					SendShipmentNotifications(job.Data)
				case "payment_confirmed":
					log.Printf("HermesEmail: payment confirmed for shipment %s", job.Data.TrackingNumber)
					SendPaymentConfirmedNotification(job.Data)
				case "payment_failed":
					log.Printf("HermesEmail: payment failed for shipment %s", job.Data.TrackingNumber)
					SendPaymentFailedNotification(job.Data)
				case "wallet_funded":
					log.Printf("HermesEmail: wallet funding of %v confirmed for %s", job.Data.Amount, job.Data.SenderEmail)
					SendWalletFundedNotification(job.Data)
				case "otp":
					log.Printf("HermesEmail: verification code sent to %s", job.Data.SenderEmail)
					SendVerificationCode(job.Data)
				}
			case <-w.Quit:
				return
			}
		}
	}()
}

func (w *EmailWorker) Stop() {
	w.Quit <- true
}
